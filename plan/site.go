package plan

import (
	"runtime"
	"strings"
)

// Site attributes a call: the routine being called and where it was called from.
type Site struct {
	Routine string
	File    string
	Line    int
}

// CallSite captures the routine that calls CallSite and the location of its caller.
// skip moves both up the stack: CallSite(1) inside a helper reports the helper's caller as
// the routine.
func CallSite(skip int) Site {
	pcs := make([]uintptr, 2)
	n := runtime.Callers(skip+2, pcs)
	frames := runtime.CallersFrames(pcs[:n])

	var site Site
	routine, more := frames.Next()
	site.Routine = shortFuncName(routine.Function)
	if !more {
		return site
	}
	caller, _ := frames.Next()
	site.File = caller.File
	site.Line = caller.Line
	return site
}

// shortFuncName trims the import path, leaving "pkg.Func" or "pkg.(*T).Method".
func shortFuncName(name string) string {
	if i := strings.LastIndexByte(name, '/'); i >= 0 {
		name = name[i+1:]
	}
	return name
}
