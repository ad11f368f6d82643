package runbook

import (
	"fmt"

	"github.com/mitchellh/colorstring"
	"github.com/sirupsen/logrus"
)

// textLogFormatter prints one colored line per entry, prefixed with
// the app and book the entry belongs to when those fields are set.
type textLogFormatter struct {
	colorize *colorstring.Colorize
	colors   map[logrus.Level]string
}

func (f *textLogFormatter) Format(entry *logrus.Entry) ([]byte, error) {
	var prefix = "[" + f.colors[entry.Level] + "]"
	app := entry.Data["app"]
	if app != nil {
		switch app := app.(type) {
		case string:
			book := entry.Data["book"]
			if book != nil {
				switch book := book.(type) {
				case string:
					prefix = fmt.Sprintf("%s%s.%s ≫ ", prefix, app, book)
				}
			} else {
				prefix = fmt.Sprintf("%s%s ≫ ", prefix, app)
			}
		}
	}
	return []byte(f.colorize.Color(fmt.Sprintf("%s%s\n", prefix, entry.Message))), nil
}

func (a *App) textFormatter() *textLogFormatter {
	colors := map[logrus.Level]string{
		logrus.PanicLevel: a.Viper.GetString("log_color_panic"),
		logrus.FatalLevel: a.Viper.GetString("log_color_fatal"),
		logrus.ErrorLevel: a.Viper.GetString("log_color_error"),
		logrus.WarnLevel:  a.Viper.GetString("log_color_warn"),
		logrus.InfoLevel:  a.Viper.GetString("log_color_info"),
		logrus.DebugLevel: a.Viper.GetString("log_color_debug"),
		logrus.TraceLevel: a.Viper.GetString("log_color_trace"),
	}

	return &textLogFormatter{
		colorize: &colorstring.Colorize{
			Colors:  colorstring.DefaultColors,
			Disable: !a.Colorize,
			Reset:   true,
		},
		colors: colors,
	}
}
