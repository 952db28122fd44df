package stats

import (
	"fmt"
	"time"

	"github.com/mapconv/osmx/log"
)

type counter struct {
	coords    int64
	nodes     int64
	ways      int64
	relations int64
}

func (c *counter) report() string {
	return fmt.Sprintf("Nodes: %d Ways: %d Relations: %d Coords: %d",
		c.nodes, c.ways, c.relations, c.coords)
}

// Statistics collects element counts from the parser and reports
// them periodically. All Add methods are safe for concurrent use.
type Statistics struct {
	coords    chan int
	nodes     chan int
	ways      chan int
	relations chan int
	done      chan chan counter
}

func (s *Statistics) AddCoords(n int)    { s.coords <- n }
func (s *Statistics) AddNodes(n int)     { s.nodes <- n }
func (s *Statistics) AddWays(n int)      { s.ways <- n }
func (s *Statistics) AddRelations(n int) { s.relations <- n }

// Stop ends the reporting loop and logs the final counts.
func (s *Statistics) Stop() {
	result := make(chan counter)
	s.done <- result
	c := <-result
	log.Printf("[info] %s", c.report())
}

func NewReporter(interval time.Duration) *Statistics {
	s := &Statistics{
		coords:    make(chan int),
		nodes:     make(chan int),
		ways:      make(chan int),
		relations: make(chan int),
		done:      make(chan chan counter),
	}

	go func() {
		c := counter{}
		tick := time.NewTicker(interval)
		defer tick.Stop()
		for {
			select {
			case n := <-s.coords:
				c.coords += int64(n)
			case n := <-s.nodes:
				c.nodes += int64(n)
			case n := <-s.ways:
				c.ways += int64(n)
			case n := <-s.relations:
				c.relations += int64(n)
			case <-tick.C:
				log.Printf("[debug] %s", c.report())
			case result := <-s.done:
				result <- c
				return
			}
		}
	}()
	return s
}
