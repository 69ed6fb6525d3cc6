package commands

import (
	"os"
	"strconv"
	"strings"

	"github.com/twcli/twcli/config"
	"github.com/twcli/twcli/printer"
)

const (
	statusFound   = "found"
	statusMissing = "missing"
)

func configRows(c config.Config) []printer.Row {
	settingsFile := c.SettingsFile
	if settingsFile == "" {
		settingsFile = "(none)"
	}

	rows := []printer.Row{
		{Name: "Settings file", Value: settingsFile},
		{Name: "BASE_DIR", Value: c.BaseDir},
		{Name: "DEBUG", Value: strconv.FormatBool(c.Debug)},
		{Name: "STATIC_URL", Value: c.StaticURL},
		{Name: "STATICFILES_DIRS", Value: strings.Join(c.StaticFilesDirs, ", ")},
		{Name: "TEMPLATE_DIRS", Value: strings.Join(c.TemplateDirs, ", ")},
		{Name: "SERVER_COMMAND", Value: strings.Join(c.ServerCommand, " ")},
		{Name: "SERVER_PLUS_COMMAND", Value: strings.Join(c.ServerPlusCommand, " ")},
		{Name: "Platform", Value: c.Platform.String()},
		{Name: config.EnvPrefix + "VERSION", Value: c.Version},
		fileRow(config.EnvPrefix+"PATH", c.FullCLIPath(), nil),
		{Name: config.EnvPrefix + "AUTOMATIC_DOWNLOAD", Value: strconv.FormatBool(c.AutomaticDownload)},
		{Name: config.EnvPrefix + "VERIFY_CHECKSUM", Value: strconv.FormatBool(c.VerifyChecksum)},
		{Name: "Download URL", Value: c.DownloadURL()},
	}

	if c.SrcCSS == "" {
		rows = append(rows, printer.Row{Name: config.EnvPrefix + "SRC_CSS", Value: "(unset)"})
	} else {
		src, err := c.FullSrcCSSPath()
		rows = append(rows, fileRow(config.EnvPrefix+"SRC_CSS", src, err))
	}
	dist, err := c.FullDistCSSPath()
	rows = append(rows,
		fileRow(config.EnvPrefix+"DIST_CSS", dist, err),
		fileRow(config.EnvPrefix+"CONFIG_FILE", c.FullConfigFilePath(), nil),
		printer.Row{Name: "Stylesheet URL", Value: c.StylesheetURL()},
	)
	return rows
}

func fileRow(name, p string, err error) printer.Row {
	if err != nil {
		return printer.Row{Name: name, Value: err.Error()}
	}
	status := statusMissing
	if _, err := os.Stat(p); err == nil {
		status = statusFound
	}
	return printer.Row{Name: name, Value: p, Status: status}
}
