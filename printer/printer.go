package printer

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rodaine/table"
)

// Printer writes operator facing messages, coloured by outcome.
type Printer struct {
	w io.Writer
}

func New(w io.Writer) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w}
}

func (p *Printer) Writer() io.Writer {
	return p.w
}

func (p *Printer) Success(format string, args ...interface{}) {
	color.New(color.FgGreen).Fprintln(p.w, fmt.Sprintf(format, args...))
}

func (p *Printer) Warning(format string, args ...interface{}) {
	color.New(color.FgYellow).Fprintln(p.w, fmt.Sprintf(format, args...))
}

func (p *Printer) Error(format string, args ...interface{}) {
	color.New(color.FgRed).Fprintln(p.w, fmt.Sprintf(format, args...))
}

// Println writes unformatted output, one line per call.
func (p *Printer) Println(s string) {
	fmt.Fprintln(p.w, s)
}

// Row is one setting shown by Table.
type Row struct {
	Name   string
	Value  string
	Status string
}

func (p *Printer) Table(rows []Row) {
	headerFmt := color.New(color.FgGreen, color.Underline).SprintfFunc()
	columnFmt := color.New(color.FgYellow).SprintfFunc()

	tbl := table.New("Setting", "Value", "Status")
	tbl.WithHeaderFormatter(headerFmt).WithFirstColumnFormatter(columnFmt).WithWriter(p.w)

	for _, r := range rows {
		tbl.AddRow(r.Name, r.Value, r.Status)
	}

	tbl.Print()
}
