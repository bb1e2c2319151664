package site

import (
	"fmt"
	"html/template"
	"strings"
)

// NavItemHeight is the height in px of one Works submenu entry
const NavItemHeight = 35

type NavLink struct {
	Title      string
	Href       string
	Active     bool
	FullReload bool
}

// Nav is the sidebar as rendered for one path.
type Nav struct {
	WorksActive bool
	// Expanded is the initial state of the submenu, the client toggles it
	Expanded  bool
	MaxHeight int
	Projects  []NavLink
	Links     []NavLink
}

func BuildNav(c *Catalog, path string) Nav {
	nav := Nav{
		WorksActive: strings.HasPrefix(path, "/works"),
		Expanded:    strings.HasPrefix(path, "/works/"),
	}
	for _, p := range c.NavProjects() {
		nav.Projects = append(nav.Projects, NavLink{Title: p.Title, Href: p.Href(), Active: path == p.Href(), FullReload: p.FullReload})
	}
	nav.MaxHeight = NavItemHeight * len(nav.Projects)
	for _, l := range []NavLink{{Title: "Feed", Href: "/feed"}, {Title: "About", Href: "/about"}, {Title: "Contact", Href: "/contact"}} {
		l.Active = path == l.Href
		nav.Links = append(nav.Links, l)
	}
	return nav
}

// SubmenuStyle is the inline style of the submenu before any toggle.
func (n Nav) SubmenuStyle() template.CSS {
	if n.Expanded {
		return template.CSS(fmt.Sprintf("max-height: %dpx; opacity: 1", n.MaxHeight))
	}
	return "max-height: 0; opacity: 0"
}
