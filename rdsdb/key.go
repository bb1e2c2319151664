package rdsdb

import (
	"fmt"
	"strings"
)

// ConcatedKeys joins fields with ":", integral floats are printed without decimals
func ConcatedKeys(fields ...interface{}) string {
	results := make([]string, 0, len(fields))
	for _, field := range fields {
		if f64, ok := field.(float64); ok && f64 == float64(int64(f64)) {
			results = append(results, fmt.Sprintf("%v", int64(f64)))
		} else {
			results = append(results, fmt.Sprintf("%v", field))
		}
	}
	return strings.Join(results, ":")
}
