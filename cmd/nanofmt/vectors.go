package main

import (
	"fmt"
	"io"
	"os"

	"github.com/markkurossi/tabulate"
	"gopkg.in/yaml.v3"

	"github.com/lattice-substrate/nanofmt/fmterr"
)

// vectorFile is the on-disk YAML shape of a vector suite. Vector arguments
// use the same typed-token syntax as the render command.
type vectorFile struct {
	Vectors []vector `yaml:"vectors"`
}

type vector struct {
	Name   string   `yaml:"name"`
	Format string   `yaml:"format"`
	Args   []string `yaml:"args"`
	Want   string   `yaml:"want"`
}

type vectorResult struct {
	name   string
	format string
	got    string
	want   string
	ok     bool
}

func loadVectorFile(path string) (*vectorFile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmterr.Wrap(fmterr.VectorLoad,
			fmt.Sprintf("reading suite %q", path), err)
	}

	var suite vectorFile
	if err := yaml.Unmarshal(data, &suite); err != nil {
		return nil, fmterr.Wrap(fmterr.VectorLoad,
			fmt.Sprintf("parsing suite %q", path), err)
	}
	if len(suite.Vectors) == 0 {
		return nil, fmterr.New(fmterr.VectorLoad,
			fmt.Sprintf("suite %q contains no vectors", path))
	}
	return &suite, nil
}

func runVectors(suite *vectorFile) []vectorResult {
	results := make([]vectorResult, 0, len(suite.Vectors))
	for _, v := range suite.Vectors {
		r := vectorResult{name: v.Name, format: v.Format, want: v.Want}
		args, err := parseTypedArgs(v.Args)
		if err != nil {
			r.got = fmt.Sprintf("<%v>", err)
		} else {
			r.got = renderString(v.Format, args)
			r.ok = r.got == r.want
		}
		results = append(results, r)
	}
	return results
}

func writeReport(w io.Writer, results []vectorResult) error {
	tab := tabulate.New(tabulate.UnicodeLight)
	tab.Header("Vector").SetAlign(tabulate.ML)
	tab.Header("Format").SetAlign(tabulate.ML)
	tab.Header("Got").SetAlign(tabulate.ML)
	tab.Header("Want").SetAlign(tabulate.ML)
	tab.Header("Result").SetAlign(tabulate.MC)

	for _, r := range results {
		row := tab.Row()
		row.Column(r.name)
		row.Column(r.format)
		row.Column(r.got)
		row.Column(r.want)
		if r.ok {
			row.Column("pass")
		} else {
			row.Column("FAIL")
		}
	}
	tab.Print(w)
	return nil
}
