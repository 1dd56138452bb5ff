package log

import (
	"fmt"
	"sort"
	"strings"
	"sync/atomic"

	"github.com/charmbracelet/lipgloss"
	"github.com/sirupsen/logrus"
)

// Console logging.
//
// Leveled, colored output in the DEBUG/INFO/WARNING/ERROR/CRITICAL
// scheme. Under --dry-run, INFO lines are relabeled DRYRUN so a report
// can never be mistaken for applied changes.

var dryRun atomic.Bool

// SetDryRun switches INFO relabeling on or off for the process.
func SetDryRun(v bool) { dryRun.Store(v) }

var levelNames = map[string]logrus.Level{
	"DEBUG":    logrus.DebugLevel,
	"INFO":     logrus.InfoLevel,
	"WARNING":  logrus.WarnLevel,
	"ERROR":    logrus.ErrorLevel,
	"CRITICAL": logrus.FatalLevel,
}

// ConfigureConsole sets the process log level from its CLI name
// (case-insensitive).
func ConfigureConsole(level string) error {
	lvl, ok := levelNames[strings.ToUpper(level)]
	if !ok {
		valid := make([]string, 0, len(levelNames))
		for name := range levelNames {
			valid = append(valid, name)
		}
		sort.Strings(valid)
		return fmt.Errorf("invalid log level %q, valid levels are: %s", level, strings.Join(valid, ", "))
	}
	logrus.SetLevel(lvl)
	logrus.SetFormatter(&levelFormatter{})
	return nil
}

var levelStyles = map[string]lipgloss.Style{
	"DEBUG":    lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
	"INFO":     lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"DRYRUN":   lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
	"WARNING":  lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
	"ERROR":    lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	"CRITICAL": lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true),
}

// levelFormatter renders "LEVEL    message" with a colored level badge.
type levelFormatter struct{}

func (f *levelFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	label := levelLabel(entry.Level)
	if label == "INFO" && dryRun.Load() {
		label = "DRYRUN"
	}
	style, ok := levelStyles[label]
	if !ok {
		style = lipgloss.NewStyle()
	}
	return []byte(fmt.Sprintf("%s %s\n", style.Render(fmt.Sprintf("%-8s", label)), entry.Message)), nil
}

func levelLabel(level logrus.Level) string {
	switch level {
	case logrus.DebugLevel, logrus.TraceLevel:
		return "DEBUG"
	case logrus.InfoLevel:
		return "INFO"
	case logrus.WarnLevel:
		return "WARNING"
	case logrus.ErrorLevel:
		return "ERROR"
	default:
		return "CRITICAL"
	}
}
