// Package vrplib reads and writes the VRPLIB-derived instance and solution
// text formats this solver reads and writes. Neither prior art nor other
// reference material carries a closer-fitting parsing library for this
// simple whitespace-delimited key-value format, so this is built directly
// on stdlib bufio/strconv scanning (see DESIGN.md).
package vrplib

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/katalvlaran/vrpsolve/vrpcore"
)

// RoundingFunc rounds a raw coordinate/matrix entry to an integer edge
// weight, per its rounding policies.
type RoundingFunc func(float64) int64

// Rounding policies recognized by the VRPLIB ROUND_FUNC header.
var Roundings = map[string]RoundingFunc{
	"none":   func(v float64) int64 { return int64(math.Round(v)) },
	"round":  func(v float64) int64 { return int64(math.Round(v)) },
	"trunc":  func(v float64) int64 { return int64(math.Trunc(v)) },
	"dimacs": func(v float64) int64 { return int64(math.Round(v * 10)) },
	"exact":  func(v float64) int64 { return int64(math.Round(v * 1000)) },
}

// Instance is the raw, order-preserving parse of a VRPLIB file, before
// Assemble turns it into a vrpcore.ProblemData (making the vehicle-type/
// profile composition decisions the file format alone doesn't fully pin
// down).
type Instance struct {
	Name           string
	Type           string
	Dimension      int
	Vehicles       int
	Capacity       int64
	EdgeWeightType string
	RoundingPolicy string

	Coords          []struct{ X, Y int64 }
	Delivery        [][]int64 // per-node, per-dimension demand (DEMAND_SECTION)
	Pickup          [][]int64 // per-node, per-dimension (BACKHAUL_SECTION)
	ServiceTime     []int64
	TimeWindows     []struct{ Early, Late int64 }
	ReleaseTimes    []int64
	Prizes          []int64
	DepotIndices    []int // 0-based after parsing (file is 1-based)
	EdgeWeights     [][]int64
	Groups          [][]int // one slice of 0-based member indices per GROUPS_SECTION line
	VehicleTypes    []VehicleTypeRow
	AllowedClients  map[int][]int // vehicle type row index -> 0-based allowed client indices
}

// VehicleTypeRow is one row of a VEHICLES_SECTION table.
type VehicleTypeRow struct {
	NumAvailable     int
	Capacity         int64
	Depot            int
	FixedCost        int64
	TWEarly, TWLate  int64
	MaxDuration      int64
	MaxDistance      int64
	UnitDistanceCost int64
	UnitDurationCost int64
}

// ReadInstance parses a VRPLIB-format instance from r, recording (and
// validating) the declared rounding policy; Assemble applies it when it
// derives distances from coordinates. Non-fatal
// issues (values beyond vrpcore.MaxUserValue) are logged as warnings via
// logrus rather than rejected.
func ReadInstance(r io.Reader) (*Instance, error) {
	inst := &Instance{RoundingPolicy: "none"}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)

	var section string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line == "EOF" {
			continue
		}

		if isSectionHeader(line) {
			section = strings.TrimSuffix(line, ":")
			section = strings.TrimSpace(section)
			continue
		}

		if section == "" {
			if err := parseHeaderLine(inst, line); err != nil {
				return nil, err
			}
			continue
		}

		if err := parseSectionLine(inst, section, line); err != nil {
			return nil, err
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("vrplib: scanning instance: %w", err)
	}

	if err := normalizeDepots(inst); err != nil {
		return nil, err
	}
	warnOnScaling(inst)

	return inst, nil
}

var knownSections = map[string]bool{
	"NODE_COORD_SECTION": true, "DEMAND_SECTION": true, "BACKHAUL_SECTION": true,
	"SERVICE_TIME_SECTION": true, "TIME_WINDOW_SECTION": true, "DEPOT_SECTION": true,
	"EDGE_WEIGHT_SECTION": true, "RELEASE_TIME_SECTION": true, "PRIZE_SECTION": true,
	"GROUPS_SECTION": true, "VEHICLES_SECTION": true, "ALLOWED_CLIENTS_SECTION": true,
}

func isSectionHeader(line string) bool {
	trimmed := strings.TrimSuffix(line, ":")
	return knownSections[strings.TrimSpace(trimmed)]
}

func parseHeaderLine(inst *Instance, line string) error {
	key, value, ok := splitKV(line)
	if !ok {
		return fmt.Errorf("vrplib: malformed header line %q", line)
	}
	var err error
	switch key {
	case "NAME":
		inst.Name = value
	case "TYPE":
		inst.Type = value
	case "DIMENSION":
		inst.Dimension, err = strconv.Atoi(value)
		if err == nil && len(inst.ServiceTime) == 1 {
			// Expand a SERVICE_TIME placeholder read before DIMENSION.
			inst.ServiceTime = broadcastLater(nil, inst.ServiceTime[0], inst.Dimension)
		}
	case "VEHICLES":
		inst.Vehicles, err = strconv.Atoi(value)
	case "CAPACITY":
		var c int64
		c, err = strconv.ParseInt(value, 10, 64)
		inst.Capacity = c
	case "EDGE_WEIGHT_TYPE":
		inst.EdgeWeightType = value
	case "EDGE_WEIGHT_FORMAT":
		// Only FULL_MATRIX is recognized; stored implicitly
		// by the presence of an EDGE_WEIGHT_SECTION, so nothing to keep.
	case "ROUND_FUNC":
		if _, ok := Roundings[value]; !ok {
			return fmt.Errorf("vrplib: unknown round function %q", value)
		}
		inst.RoundingPolicy = value
	case "SERVICE_TIME":
		var s int64
		s, err = strconv.ParseInt(value, 10, 64)
		if err == nil {
			inst.ServiceTime = broadcastLater(inst.ServiceTime, s, inst.Dimension)
		}
	default:
		logrus.WithField("key", key).Debug("vrplib: ignoring unrecognized header key")
	}
	if err != nil {
		return fmt.Errorf("vrplib: parsing header %q: %w", key, err)
	}
	return nil
}

// broadcastLater defers SERVICE_TIME broadcasting until DIMENSION is known
// (VRPLIB headers are not guaranteed ordered); parseHeaderLine's DIMENSION
// case expands the one-entry placeholder once the true count is known.
func broadcastLater(existing []int64, scalar int64, dim int) []int64 {
	if dim <= 0 {
		return []int64{scalar} // placeholder; expanded when DIMENSION is parsed
	}
	out := make([]int64, dim)
	for i := range out {
		out[i] = scalar
	}
	return out
}

func splitKV(line string) (key, value string, ok bool) {
	idx := strings.Index(line, ":")
	if idx < 0 {
		fields := strings.Fields(line)
		if len(fields) < 2 {
			return "", "", false
		}
		return fields[0], strings.Join(fields[1:], " "), true
	}
	return strings.TrimSpace(line[:idx]), strings.TrimSpace(line[idx+1:]), true
}

func warnOnScaling(inst *Instance) {
	check := func(label string, v int64) {
		if v > vrpcore.MaxUserValue {
			logrus.WithFields(logrus.Fields{"field": label, "value": v}).
				Warn("vrplib: value exceeds MaxUserValue; scaling may overflow downstream arithmetic")
		}
	}
	for _, row := range inst.EdgeWeights {
		for _, w := range row {
			check("edge_weight", w)
		}
	}
	check("capacity", inst.Capacity)
}
