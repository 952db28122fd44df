package main

import (
	"fmt"
	"os"

	"github.com/mapconv/osmx"
	"github.com/mapconv/osmx/config"
	"github.com/mapconv/osmx/log"
)

func printCmds() {
	fmt.Fprintf(os.Stderr, "Usage: %s COMMAND [args]\n\n", os.Args[0])
	fmt.Println("Available commands:")
	fmt.Println("\tparse")
	fmt.Println("\timport")
	fmt.Println("\texport")
	fmt.Println("\tversion")
}

func main() {
	if len(os.Args) <= 1 {
		printCmds()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "parse":
		config.ParseParse(os.Args[2:])
		setLogLevel()
		mainParse()
	case "import":
		config.ParseImport(os.Args[2:])
		setLogLevel()
		mainImport()
	case "export":
		config.ParseExport(os.Args[2:])
		setLogLevel()
		mainExport()
	case "version":
		fmt.Println(osmx.Version)
	default:
		printCmds()
		log.Fatalf("invalid command: '%s'", os.Args[1])
	}
}

func setLogLevel() {
	if config.BaseOptions.Quiet {
		log.SetMinLevel(log.LWarn)
	}
}
