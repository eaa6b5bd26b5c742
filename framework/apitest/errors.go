package apitest

import (
	"errors"
	"path/filepath"
	"reflect"
	"runtime"
	"strconv"
	"strings"

	"golang.org/x/exp/slices"
)

// ErrorWithStacktrace is a test failure together with the chain of test-code calls that
// reported it, innermost first.
type ErrorWithStacktrace struct {
	Message    string
	Stacktrace []StacktraceInfo
}

// StacktraceInfo is one call in an ErrorWithStacktrace.
type StacktraceInfo struct {
	FileName string
	Package  string
	Function string
	Line     int
}

func (e ErrorWithStacktrace) Error() string { return e.Message }

func (s StacktraceInfo) String() string {
	pkg := strings.TrimPrefix(s.Package, modulePath+"/")
	return pkg + "." + s.Function + " (" + s.FileName + ":" + strconv.Itoa(s.Line) + ")"
}

var (
	thisPackage = reflect.TypeOf((*T)(nil)).Elem().PkgPath()        //nolint:gochecknoglobals
	modulePath  = strings.TrimSuffix(thisPackage, "/framework/apitest") //nolint:gochecknoglobals
)

func withStacktrace(err error, frames []StacktraceInfo) error {
	if len(frames) == 0 {
		return err
	}
	return ErrorWithStacktrace{Message: err.Error(), Stacktrace: frames}
}

// ErrorMessageWithStacktrace returns the error message followed by its stacktrace, if it has one.
func ErrorMessageWithStacktrace(err error) string {
	var es ErrorWithStacktrace
	if !errors.As(err, &es) || len(es.Stacktrace) == 0 {
		return err.Error()
	}
	var b strings.Builder
	b.WriteString(err.Error())
	b.WriteString("\n  Stacktrace:")
	for _, s := range es.Stacktrace {
		b.WriteString("\n    ")
		b.WriteString(s.String())
	}
	return b.String()
}

// callerFrames walks up from its caller to the top-level Run, keeping only frames from outside
// this package that are not in helperFns.
func callerFrames(helperFns []string) []StacktraceInfo {
	pcs := make([]uintptr, 64)
	frames := runtime.CallersFrames(pcs[:runtime.Callers(2, pcs)])
	var ret []StacktraceInfo
	for {
		frame, more := frames.Next()
		pkg, fn := splitFunctionName(frame.Function)
		if pkg == thisPackage && fn == "Run" {
			break
		}
		if pkg != thisPackage && !slices.Contains(helperFns, frame.Function) {
			ret = append(ret, StacktraceInfo{
				FileName: filepath.Base(frame.File),
				Package:  pkg,
				Function: fn,
				Line:     frame.Line,
			})
		}
		if !more {
			break
		}
	}
	return ret
}

// splitFunctionName turns "example.com/a/b.(*T).Run" into "example.com/a/b" and "(*T).Run".
func splitFunctionName(fullName string) (string, string) {
	lastSlash := strings.LastIndex(fullName, "/")
	dot := strings.Index(fullName[lastSlash+1:], ".")
	if dot < 0 {
		return fullName, ""
	}
	split := lastSlash + 1 + dot
	return fullName[:split], fullName[split+1:]
}
