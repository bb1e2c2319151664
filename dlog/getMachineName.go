package dlog

import (
	"fmt"
	"os"
	"runtime"
	"sync"
)

var machineName = sync.OnceValue(func() string {
	host, err := os.Hostname()
	if err != nil || host == "" {
		host = "unknown"
	}
	return fmt.Sprintf("%s-CPU%d", host, runtime.NumCPU())
})

func getMachineName() string {
	return machineName()
}
