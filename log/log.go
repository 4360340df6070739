package log

import (
	_log "log"
	"os"
	"regexp"
	"strings"
	"sync"

	"github.com/gookit/color"
)

// Log is a namespaced console logger. Debug output is off unless DEBUG is set
// on the Log or the namespace matches the DEBUG environment variable, a comma
// separated list of globs where a leading "-" excludes.
type Log struct {
	*_log.Logger

	DEBUG bool

	mu        sync.RWMutex // protects the following fields
	prefix    string
	enabled   bool
	namespace *namespaceFilter
}

type namespaceFilter struct {
	include []*regexp.Regexp
	exclude []*regexp.Regexp
}

func parseNamespaces(debug string) *namespaceFilter {
	f := &namespaceFilter{}
	for _, part := range strings.FieldsFunc(debug, func(r rune) bool { return r == ',' || r == ' ' }) {
		exclude := strings.HasPrefix(part, "-")
		part = strings.TrimPrefix(part, "-")
		if part == "" {
			continue
		}
		re := regexp.MustCompile("^" + strings.ReplaceAll(regexp.QuoteMeta(part), `\*`, `.*`) + "$")
		if exclude {
			f.exclude = append(f.exclude, re)
		} else {
			f.include = append(f.include, re)
		}
	}
	return f
}

func (f *namespaceFilter) match(namespace string) bool {
	if f == nil {
		return false
	}
	for _, re := range f.exclude {
		if re.MatchString(namespace) {
			return false
		}
	}
	for _, re := range f.include {
		if re.MatchString(namespace) {
			return true
		}
	}
	return false
}

func NewLog(prefix string) *Log {
	l := &Log{
		Logger: _log.New(os.Stderr, "", 0),
	}

	if debug := strings.TrimSpace(os.Getenv("DEBUG")); debug != "" {
		l.namespace = parseNamespaces(debug)
	}

	l.SetPrefix(prefix)

	return l
}

// Enabled reports whether Debug output is written.
func (d *Log) Enabled() bool {
	if d.DEBUG {
		return true
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.enabled
}

// Console log Println.
func (d *Log) Println(message string, args ...any) {
	d.Logger.Println(color.Sprintf(message, args...))
}

// Console log Info.
func (d *Log) Info(message string, args ...any) {
	d.Logger.Println(color.Info.Sprintf(message, args...))
}

// Console log Debug.
func (d *Log) Debug(message string, args ...any) {
	if d.Enabled() {
		d.Logger.Println(color.Debug.Sprintf(message, args...))
	}
}

// Console log Warning.
func (d *Log) Warning(message string, args ...any) {
	d.Logger.Println(color.Warn.Sprintf(message, args...))
}

// Console log Error.
func (d *Log) Error(message string, args ...any) {
	d.Logger.Println(color.Danger.Sprintf(message, args...))
}

// Prefix returns the namespace of the logger.
func (d *Log) Prefix() string {
	d.mu.RLock()
	defer d.mu.RUnlock()

	return d.prefix
}

// SetPrefix sets the namespace of the logger and re-evaluates DEBUG against it.
func (d *Log) SetPrefix(prefix string) {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.prefix = prefix
	d.enabled = d.namespace.match(prefix)

	if prefix == "" {
		d.Logger.SetPrefix("")
	} else {
		d.Logger.SetPrefix(prefix + " ")
	}
}
