package config

import (
	"flag"
	"fmt"
	"io/ioutil"
	"os"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Config mirrors the optional YAML config file. Command line flags
// take precedence over config file values.
type Config struct {
	CacheDir    string `yaml:"cachedir"`
	Connection  string `yaml:"connection"`
	MappingFile string `yaml:"mapping"`
	Schema      string `yaml:"schema"`
}

const defaultCacheDir = "/tmp/osmx"
const defaultSchema = "public"

var ParseFlags = flag.NewFlagSet("parse", flag.ExitOnError)
var ImportFlags = flag.NewFlagSet("import", flag.ExitOnError)
var ExportFlags = flag.NewFlagSet("export", flag.ExitOnError)

type _BaseOptions struct {
	CacheDir    string
	Connection  string
	MappingFile string
	Schema      string
	ConfigFile  string
	Quiet       bool
}

func (o *_BaseOptions) updateFromConfig() error {
	conf := &Config{
		CacheDir: defaultCacheDir,
		Schema:   defaultSchema,
	}

	if o.ConfigFile != "" {
		b, err := ioutil.ReadFile(o.ConfigFile)
		if err != nil {
			return err
		}
		if err := yaml.Unmarshal(b, conf); err != nil {
			return errors.Wrapf(err, "config file %s", o.ConfigFile)
		}
	}

	if o.Connection == "" {
		o.Connection = conf.Connection
	}
	if o.MappingFile == "" {
		o.MappingFile = conf.MappingFile
	}
	if o.CacheDir == defaultCacheDir && conf.CacheDir != "" {
		o.CacheDir = conf.CacheDir
	}
	if o.Schema == defaultSchema && conf.Schema != "" {
		o.Schema = conf.Schema
	}
	return nil
}

type _ParseOptions struct {
	WKT          bool
	SkipDangling bool
}

type _ImportOptions struct {
	Overwritecache bool
	Appendcache    bool
}

type _ExportOptions struct {
	FromCache bool
}

var BaseOptions = _BaseOptions{}
var ParseOptions = _ParseOptions{}
var ImportOptions = _ImportOptions{}
var ExportOptions = _ExportOptions{}

func addBaseFlags(flags *flag.FlagSet) {
	flags.StringVar(&BaseOptions.CacheDir, "cachedir", defaultCacheDir, "cache directory")
	flags.StringVar(&BaseOptions.Connection, "connection", "", "PostgreSQL connection parameters")
	flags.StringVar(&BaseOptions.MappingFile, "mapping", "", "tag class mapping file (yaml)")
	flags.StringVar(&BaseOptions.Schema, "dbschema", defaultSchema, "db schema")
	flags.StringVar(&BaseOptions.ConfigFile, "config", "", "config file (yaml)")
	flags.BoolVar(&BaseOptions.Quiet, "quiet", false, "quiet log output")
}

func usage(flags *flag.FlagSet) func() {
	return func() {
		fmt.Fprintf(os.Stderr, "Usage: %s %s [args] file.osm\n\n", os.Args[0], flags.Name())
		flags.PrintDefaults()
		os.Exit(2)
	}
}

func init() {
	ParseFlags.Usage = usage(ParseFlags)
	ImportFlags.Usage = usage(ImportFlags)
	ExportFlags.Usage = usage(ExportFlags)

	addBaseFlags(ParseFlags)
	ParseFlags.BoolVar(&ParseOptions.WKT, "wkt", false, "print way geometries as WKT")
	ParseFlags.BoolVar(&ParseOptions.SkipDangling, "skipdangling", false,
		"drop way references to missing nodes instead of failing")

	addBaseFlags(ImportFlags)
	ImportFlags.BoolVar(&ImportOptions.Overwritecache, "overwritecache", false, "overwritecache")
	ImportFlags.BoolVar(&ImportOptions.Appendcache, "appendcache", false, "append cache")

	addBaseFlags(ExportFlags)
	ExportFlags.BoolVar(&ExportOptions.FromCache, "fromcache", false,
		"export from the element cache instead of parsing a file")
}

func parse(flags *flag.FlagSet, args []string) {
	if err := flags.Parse(args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}
	if err := BaseOptions.updateFromConfig(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func ParseParse(args []string) {
	if len(args) == 0 {
		ParseFlags.Usage()
	}
	parse(ParseFlags, args)
}

func ParseImport(args []string) {
	if len(args) == 0 {
		ImportFlags.Usage()
	}
	parse(ImportFlags, args)
}

func ParseExport(args []string) {
	parse(ExportFlags, args)
	if BaseOptions.Connection == "" {
		fmt.Fprintln(os.Stderr, "missing -connection")
		ExportFlags.Usage()
	}
}
