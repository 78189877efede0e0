package vrplib

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/katalvlaran/vrpsolve/vrpcore"
	"github.com/katalvlaran/vrpsolve/vrpsolution"
)

// ReadSolutionRoutes parses the plain-text solution format: one
// "Route #k : c1 c2 ... cm" line per route (1-based client
// indices, converted to 0-based here), an optional trailing "Cost <value>"
// line (ignored — costs are recomputed by the caller's CostEvaluator), and
// empty routes silently skipped.
func ReadSolutionRoutes(r io.Reader) ([][]int, error) {
	var routes [][]int
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "Cost") {
			continue
		}
		if !strings.HasPrefix(line, "Route") {
			continue
		}

		idx := strings.Index(line, ":")
		if idx < 0 {
			return nil, fmt.Errorf("vrplib: malformed solution line %q", line)
		}
		toks := strings.Fields(line[idx+1:])
		if len(toks) == 0 {
			continue // empty route, ignored
		}

		visits := make([]int, len(toks))
		for i, t := range toks {
			v, err := strconv.Atoi(t)
			if err != nil {
				return nil, fmt.Errorf("vrplib: parsing client index %q: %w", t, err)
			}
			visits[i] = v - 1
		}
		routes = append(routes, visits)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vrplib: scanning solution: %w", err)
	}
	return routes, nil
}

// AssembleSolution builds a vrpsolution.Solution from parsed route client
// lists, assigning each route the vehicle type at vehicleTypeOf[i] (the
// file format doesn't record vehicle type per route, so the caller
// supplies the assignment; routes beyond len(vehicleTypeOf) get type 0).
func AssembleSolution(pd *vrpcore.ProblemData, routeVisits [][]int, vehicleTypeOf []int) (*vrpsolution.Solution, error) {
	routes := make([]vrpsolution.Route, len(routeVisits))
	for i, visits := range routeVisits {
		vt := 0
		if i < len(vehicleTypeOf) {
			vt = vehicleTypeOf[i]
		}
		r, err := vrpsolution.NewRoute(pd, vt, visits)
		if err != nil {
			return nil, fmt.Errorf("vrplib: route %d: %w", i, err)
		}
		routes[i] = r
	}

	seen := make(map[int]bool)
	for _, r := range routes {
		for _, c := range r.Visits {
			seen[c] = true
		}
	}
	var unvisited []int
	for c := pd.NumDepots(); c < pd.NumLocations(); c++ {
		if !seen[c] {
			unvisited = append(unvisited, c)
		}
	}

	return vrpsolution.NewSolution(pd, routes, unvisited)
}

// WriteSolution writes sol in the text format: one "Route #k
// : c1 c2 ... cm" line per non-empty route (1-based indices), followed by
// a trailing "Cost <value>" line.
func WriteSolution(w io.Writer, sol *vrpsolution.Solution, cost int64) error {
	bw := bufio.NewWriter(w)
	k := 1
	for _, r := range sol.Routes {
		if len(r.Visits) == 0 {
			continue
		}
		parts := make([]string, len(r.Visits))
		for i, c := range r.Visits {
			parts[i] = strconv.Itoa(c + 1)
		}
		if _, err := fmt.Fprintf(bw, "Route #%d : %s\n", k, strings.Join(parts, " ")); err != nil {
			return fmt.Errorf("vrplib: writing route %d: %w", k, err)
		}
		k++
	}
	if _, err := fmt.Fprintf(bw, "Cost %d\n", cost); err != nil {
		return fmt.Errorf("vrplib: writing cost: %w", err)
	}
	return bw.Flush()
}
