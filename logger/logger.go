package L

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// NOTE: populated at build time with -ldflags (-X)
var printCallerLocation string

// log levels
type LogLevel byte

const (
	DEBUG LogLevel = iota
	INFO
	NORMAL
	WARN
	ERROR
	PANIC
	SILENT
)

// color modes
type ColorMode int

const (
	COLOR_MODE_AUTO ColorMode = iota
	COLOR_MODE_ALWAYS
	COLOR_MODE_NEVER
)

// styles
// debug - blue
var debugStyle = lipgloss.NewStyle().Padding(0).Margin(0).
	Foreground(lipgloss.Color("4"))

// info - green
var infoStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("2"))

// no color - normal
var noColorStyle = lipgloss.NewStyle()

// warn - yellow
var warnStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("3"))

// error,panic - red
var errorStyle = lipgloss.NewStyle().
	Foreground(lipgloss.Color("1"))

// prefixes
const (
	debugPrefix  string = "DBG  "
	infoPrefix   string = "INF  "
	normalPrefix string = "     "
	warnPrefix   string = "WRN  "
	errorPrefix  string = "ERR  "
	panicPrefix  string = "PNC  "
)

var (
	level        = INFO
	colorMode    = COLOR_MODE_AUTO
	debugLogger  = log.New(os.Stdout, colorize(debugPrefix, &debugStyle), log.Lmsgprefix)
	infoLogger   = log.New(os.Stdout, colorize(infoPrefix, &infoStyle), log.Lmsgprefix)
	normalLogger = log.New(os.Stdout, colorize(normalPrefix, &noColorStyle), log.Lmsgprefix)
	warnLogger   = log.New(os.Stdout, colorize(warnPrefix, &warnStyle), log.Lmsgprefix)
	errorLogger  = log.New(os.Stderr, colorize(errorPrefix, &errorStyle), log.Lmsgprefix)
	panicLogger  = log.New(os.Stderr, colorize(panicPrefix, &errorStyle), log.Lmsgprefix)
	footerMutex  = &sync.Mutex{}
	footerText   = ""
	footerLines  = 0
	footerLevel  = INFO
)

// cursor sequences
const (
	c_escape     string = "\x1B"
	c_clear_line string = c_escape + "[2K"
	c_up         string = c_escape + "[1A"
)

func SetLevelFromString(l string) error {
	switch strings.ToLower(l) {
	case "debug":
		level = DEBUG
	case "info":
		level = INFO
	case "warn":
		level = WARN
	case "error":
		level = ERROR
	case "panic":
		level = PANIC
	case "silent":
		level = SILENT
	default:
		return fmt.Errorf("unsupported log level: %s", l)
	}
	return nil
}

func SetLevel(l LogLevel) error {
	switch l {
	case DEBUG, INFO, WARN, ERROR, PANIC, SILENT:
		level = l
	default:
		return fmt.Errorf("unsupported log level: %d", l)
	}
	return nil
}

func SetColorModeFromString(colorModeStr string) error {
	switch strings.ToLower(colorModeStr) {
	case "always":
		colorMode = COLOR_MODE_ALWAYS
	case "never":
		colorMode = COLOR_MODE_NEVER
	case "auto":
		colorMode = COLOR_MODE_AUTO
	default:
		return fmt.Errorf("unsupported color mode: %s", colorModeStr)
	}
	updateLoggerPrefixColors()
	return nil
}

func SetColorMode(cm ColorMode) error {
	switch cm {
	case COLOR_MODE_ALWAYS, COLOR_MODE_NEVER, COLOR_MODE_AUTO:
		colorMode = cm
	default:
		return fmt.Errorf("unsupported color mode: %d", cm)
	}
	updateLoggerPrefixColors()
	return nil
}

func (cm ColorMode) String() string {
	switch cm {
	case COLOR_MODE_ALWAYS:
		return "always"
	case COLOR_MODE_NEVER:
		return "never"
	case COLOR_MODE_AUTO:
		return "auto"
	default:
		return "auto"
	}
}

func Debug(v ...any) {
	if level <= DEBUG {
		footerMutex.Lock()
		defer footerMutex.Unlock()
		clearFooter()
		if printCallerLocation == "true" {
			printWithCallerLocation(debugLogger, &debugStyle, fmt.Sprintln(v...))
		} else {
			printMultiline(debugLogger, &debugStyle, fmt.Sprintln(v...))
		}
		footerLines = printFooter()
	}
}

func Info(v ...any) {
	if level <= INFO {
		footerMutex.Lock()
		defer footerMutex.Unlock()
		clearFooter()
		printMultiline(infoLogger, &infoStyle, fmt.Sprintln(v...))
		footerLines = printFooter()
	}
}

func Warn(v ...any) {
	if level <= WARN {
		footerMutex.Lock()
		defer footerMutex.Unlock()
		clearFooter()
		printMultiline(warnLogger, &warnStyle, fmt.Sprintln(v...))
		footerLines = printFooter()
	}
}

func Error(v ...any) {
	if level <= ERROR {
		footerMutex.Lock()
		defer footerMutex.Unlock()
		clearFooter()
		if printCallerLocation == "true" {
			printWithCallerLocation(errorLogger, &errorStyle, fmt.Sprintln(v...))
		} else {
			printMultiline(errorLogger, &errorStyle, fmt.Sprintln(v...))
		}
		footerLines = printFooter()
	}
}

func Panic(v ...any) {
	printMultiline(panicLogger, &errorStyle, fmt.Sprintln(v...))
	os.Exit(1)
}

func GetLogLevel() LogLevel {
	return level
}

func IsVerbose() bool {
	return level < INFO
}

func (l LogLevel) String() string {
	switch l {
	case DEBUG:
		return "debug"
	case INFO:
		return "info"
	case WARN:
		return "warn"
	case ERROR:
		return "error"
	case PANIC:
		return "panic"
	case SILENT:
		return "silent"
	default:
		return "Unknown log level, indicates a bug. Please report"
	}
}

func Printf(format string, v ...any) (int, error) {
	if level < SILENT {
		footerMutex.Lock()
		defer footerMutex.Unlock()
		clearFooter()
		n := printMultiline(normalLogger, &noColorStyle, fmt.Sprintf(format, v...))
		footerLines = printFooter()
		return n, nil
	}
	return 0, nil
}

func Print(a ...any) (int, error) {
	if level < SILENT {
		footerMutex.Lock()
		defer footerMutex.Unlock()
		clearFooter()
		n := printMultiline(normalLogger, &noColorStyle, fmt.Sprint(a...))
		footerLines = printFooter()
		return n, nil
	}
	return 0, nil
}

func Println(a ...any) (int, error) {
	if level < SILENT {
		footerMutex.Lock()
		defer footerMutex.Unlock()
		clearFooter()
		n := printMultiline(normalLogger, &noColorStyle, fmt.Sprintln(a...))
		footerLines = printFooter()
		return n, nil
	}
	return 0, nil
}

// prints a persistent string "s" at the bottom of the terminal output.
// previous "footer" is cleared before each log and reprinted after.
// passing "s" as an empty string removes the footer.
func Footer(l LogLevel, s string) {
	footerMutex.Lock()
	defer footerMutex.Unlock()

	// clear previous footer output and reprint
	clearFooter()
	footerText = strings.TrimSpace(s)
	footerLevel = l
	footerLines = printFooter()
}

func colorize(prefix string, style *lipgloss.Style) string {
	if colorMode == COLOR_MODE_NEVER {
		return prefix
	}
	return style.Render(prefix)
}

func updateLoggerPrefixColors() {
	switch colorMode {
	case COLOR_MODE_NEVER:
		lipgloss.SetColorProfile(termenv.Ascii)
	case COLOR_MODE_ALWAYS:
		lipgloss.SetColorProfile(termenv.ANSI)
	default:
		lipgloss.SetColorProfile(termenv.EnvColorProfile())
	}
	debugLogger.SetPrefix(colorize(debugPrefix, &debugStyle))
	infoLogger.SetPrefix(colorize(infoPrefix, &infoStyle))
	normalLogger.SetPrefix(colorize(normalPrefix, &noColorStyle))
	warnLogger.SetPrefix(colorize(warnPrefix, &warnStyle))
	errorLogger.SetPrefix(colorize(errorPrefix, &errorStyle))
	panicLogger.SetPrefix(colorize(panicPrefix, &errorStyle))
}

// returns the number of printed lines
func printMultiline(logger *log.Logger, style *lipgloss.Style, s string) int {
	s = strings.TrimRight(s, "\n")
	lines := strings.Split(s, "\n")
	for _, line := range lines {
		logger.Print(colorizeLine(line, style))
	}
	return len(lines)
}

func colorizeLine(line string, style *lipgloss.Style) string {
	if colorMode == COLOR_MODE_NEVER || style == &noColorStyle {
		return line
	}
	return style.Render(line)
}

func printWithCallerLocation(logger *log.Logger, style *lipgloss.Style, s string) int {
	_, file, line, ok := runtime.Caller(2)
	if !ok {
		return printMultiline(logger, style, s)
	}
	return printMultiline(logger, style, fmt.Sprintf("%s:%d %s", filepath.Base(file), line, s))
}

// caller must hold footerMutex
func clearFooter() {
	for range footerLines {
		fmt.Fprint(os.Stdout, c_up+c_clear_line+"\r")
	}
	footerLines = 0
}

// caller must hold footerMutex
func printFooter() int {
	if footerText == "" || level > footerLevel {
		return 0
	}
	lines := strings.Split(footerText, "\n")
	for _, line := range lines {
		fmt.Fprintln(os.Stdout, line)
	}
	return len(lines)
}
