package main

import (
	"fmt"

	"github.com/twpayne/go-geom/encoding/wkt"

	"github.com/mapconv/osmx/cache"
	"github.com/mapconv/osmx/config"
	"github.com/mapconv/osmx/database/postgres"
	"github.com/mapconv/osmx/element"
	"github.com/mapconv/osmx/log"
	"github.com/mapconv/osmx/mapping"
	"github.com/mapconv/osmx/parser/osmxml"
	"github.com/mapconv/osmx/reader"
)

func loadMapping() *mapping.Mapping {
	if config.BaseOptions.MappingFile == "" {
		return mapping.Default()
	}
	m, err := mapping.FromFile(config.BaseOptions.MappingFile)
	if err != nil {
		log.Fatal(err)
	}
	return m
}

func mainParse() {
	files := config.ParseFlags.Args()
	if len(files) != 1 {
		log.Fatal("parse requires a single .osm file")
	}

	defer log.Step("Parsing " + files[0])()
	m, err := osmxml.Config{
		SkipDanglingRefs: config.ParseOptions.SkipDangling,
	}.ParseFile(files[0])
	if err != nil {
		log.Fatal(err)
	}

	classes := loadMapping()
	counts := make(map[string]int)
	for i := range m.Ways {
		for _, class := range classes.WayClasses(m.Ways[i].Tags) {
			counts[class]++
		}
	}

	log.Printf("[info] parsed %d nodes, %d ways, %d relations",
		len(m.Nodes), len(m.Ways), len(m.Relations))
	for _, class := range classes.ClassNames() {
		log.Printf("[info] ways with class %s: %d", class, counts[class])
	}

	if config.ParseOptions.WKT {
		for i := range m.Ways {
			way := &m.Ways[i]
			if len(way.Points) == 0 {
				continue
			}
			g, err := way.Geometry()
			if err != nil {
				log.Fatal(err)
			}
			s, err := wkt.Marshal(g)
			if err != nil {
				log.Fatal(err)
			}
			fmt.Printf("%d\t%s\n", way.ID, s)
		}
	}
}

func mainImport() {
	files := config.ImportFlags.Args()
	if len(files) != 1 {
		log.Fatal("import requires a single .osm file")
	}

	osmCache := cache.NewOSMCache(config.BaseOptions.CacheDir)
	if osmCache.Exists() {
		if !config.ImportOptions.Overwritecache && !config.ImportOptions.Appendcache {
			log.Fatalf("cache %s exists: use -appendcache or -overwritecache",
				config.BaseOptions.CacheDir)
		}
		if config.ImportOptions.Overwritecache {
			log.Printf("[info] removing existing cache %s", config.BaseOptions.CacheDir)
			if err := osmCache.Remove(); err != nil {
				log.Fatal("removing cache:", err)
			}
		}
	}

	if err := osmCache.Open(); err != nil {
		log.Fatal(err)
	}
	defer osmCache.Close()

	if err := reader.ReadInto(files[0], osmCache); err != nil {
		log.Fatal(err)
	}
}

func mainExport() {
	classes := loadMapping()

	db, err := postgres.Open(config.BaseOptions.Connection, config.BaseOptions.Schema)
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()
	if err := db.Init(); err != nil {
		log.Fatal(err)
	}

	var m *element.Map
	if config.ExportOptions.FromCache {
		m, err = mapFromCache()
	} else {
		files := config.ExportFlags.Args()
		if len(files) != 1 {
			log.Fatal("export requires a single .osm file or -fromcache")
		}
		m, err = osmxml.Config{SkipDanglingRefs: true}.ParseFile(files[0])
	}
	if err != nil {
		log.Fatal(err)
	}

	defer log.Step("Writing to database")()
	if err := db.ImportMap(m, classes); err != nil {
		log.Fatal(err)
	}
}

// mapFromCache rebuilds a map from the element cache. The cache is
// keyed by ID, so elements come back in ID order, not document order.
func mapFromCache() (*element.Map, error) {
	osmCache := cache.NewOSMCache(config.BaseOptions.CacheDir)
	if !osmCache.Exists() {
		return nil, fmt.Errorf("no cache in %s", config.BaseOptions.CacheDir)
	}
	if err := osmCache.Open(); err != nil {
		return nil, err
	}
	defer osmCache.Close()

	m := &element.Map{}
	for node := range osmCache.Nodes.Iter() {
		m.Nodes = append(m.Nodes, *node)
	}

	dangling := 0
	for way := range osmCache.Ways.Iter() {
		if err := osmCache.FillWay(way); err != nil {
			if err == cache.NotFound {
				dangling++
				continue
			}
			return nil, err
		}
		m.Ways = append(m.Ways, *way)
	}
	if dangling > 0 {
		log.Printf("[warn] skipped %d ways with uncached nodes", dangling)
	}

	for rel := range osmCache.Relations.Iter() {
		m.Relations = append(m.Relations, *rel)
	}
	return m, nil
}
