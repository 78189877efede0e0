package vrplib

import (
	"fmt"
	"strconv"
	"strings"
)

func fields(line string) []string { return strings.Fields(line) }

func parseInts(toks []string) ([]int64, error) {
	out := make([]int64, len(toks))
	for i, t := range toks {
		v, err := strconv.ParseInt(t, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("vrplib: parsing %q as integer: %w", t, err)
		}
		out[i] = v
	}
	return out, nil
}

func ensureLen(s [][]int64, n int) [][]int64 {
	for len(s) < n {
		s = append(s, nil)
	}
	return s
}

// parseSectionLine dispatches one data line to the section it belongs to.
// Node indices in the file are 1-based; all indices stored on Instance are
// converted to 0-based immediately so downstream assembly never re-derives
// the offset.
func parseSectionLine(inst *Instance, section, line string) error {
	toks := fields(line)
	if len(toks) == 0 {
		return nil
	}

	switch section {
	case "NODE_COORD_SECTION":
		vals, err := parseInts(toks)
		if err != nil || len(vals) < 3 {
			return fmt.Errorf("vrplib: malformed NODE_COORD_SECTION line %q", line)
		}
		idx := int(vals[0]) - 1
		inst.Coords = growCoords(inst.Coords, idx+1)
		inst.Coords[idx].X, inst.Coords[idx].Y = vals[1], vals[2]

	case "DEMAND_SECTION":
		vals, err := parseInts(toks)
		if err != nil || len(vals) < 2 {
			return fmt.Errorf("vrplib: malformed DEMAND_SECTION line %q", line)
		}
		idx := int(vals[0]) - 1
		inst.Delivery = ensureLen(inst.Delivery, idx+1)
		inst.Delivery[idx] = vals[1:]

	case "BACKHAUL_SECTION":
		vals, err := parseInts(toks)
		if err != nil || len(vals) < 2 {
			return fmt.Errorf("vrplib: malformed BACKHAUL_SECTION line %q", line)
		}
		idx := int(vals[0]) - 1
		inst.Pickup = ensureLen(inst.Pickup, idx+1)
		inst.Pickup[idx] = vals[1:]

	case "SERVICE_TIME_SECTION":
		vals, err := parseInts(toks)
		if err != nil || len(vals) < 2 {
			return fmt.Errorf("vrplib: malformed SERVICE_TIME_SECTION line %q", line)
		}
		idx := int(vals[0]) - 1
		for len(inst.ServiceTime) <= idx {
			inst.ServiceTime = append(inst.ServiceTime, 0)
		}
		inst.ServiceTime[idx] = vals[1]

	case "TIME_WINDOW_SECTION":
		vals, err := parseInts(toks)
		if err != nil || len(vals) < 3 {
			return fmt.Errorf("vrplib: malformed TIME_WINDOW_SECTION line %q", line)
		}
		idx := int(vals[0]) - 1
		for len(inst.TimeWindows) <= idx {
			inst.TimeWindows = append(inst.TimeWindows, struct{ Early, Late int64 }{0, 0})
		}
		inst.TimeWindows[idx].Early, inst.TimeWindows[idx].Late = vals[1], vals[2]

	case "DEPOT_SECTION":
		v, err := strconv.Atoi(toks[0])
		if err != nil {
			return fmt.Errorf("vrplib: malformed DEPOT_SECTION line %q", line)
		}
		if v == -1 {
			return nil
		}
		inst.DepotIndices = append(inst.DepotIndices, v-1)

	case "EDGE_WEIGHT_SECTION":
		vals, err := parseInts(toks)
		if err != nil {
			return fmt.Errorf("vrplib: malformed EDGE_WEIGHT_SECTION line %q", line)
		}
		inst.EdgeWeights = append(inst.EdgeWeights, vals)

	case "RELEASE_TIME_SECTION":
		vals, err := parseInts(toks)
		if err != nil || len(vals) < 2 {
			return fmt.Errorf("vrplib: malformed RELEASE_TIME_SECTION line %q", line)
		}
		idx := int(vals[0]) - 1
		for len(inst.ReleaseTimes) <= idx {
			inst.ReleaseTimes = append(inst.ReleaseTimes, 0)
		}
		inst.ReleaseTimes[idx] = vals[1]

	case "PRIZE_SECTION":
		vals, err := parseInts(toks)
		if err != nil || len(vals) < 2 {
			return fmt.Errorf("vrplib: malformed PRIZE_SECTION line %q", line)
		}
		idx := int(vals[0]) - 1
		for len(inst.Prizes) <= idx {
			inst.Prizes = append(inst.Prizes, 0)
		}
		inst.Prizes[idx] = vals[1]

	case "GROUPS_SECTION":
		vals, err := parseInts(toks)
		if err != nil {
			return fmt.Errorf("vrplib: malformed GROUPS_SECTION line %q", line)
		}
		members := make([]int, len(vals))
		for i, v := range vals {
			members[i] = int(v) - 1
		}
		inst.Groups = append(inst.Groups, members)

	case "VEHICLES_SECTION":
		vals, err := parseInts(toks)
		if err != nil || len(vals) < 9 {
			return fmt.Errorf("vrplib: malformed VEHICLES_SECTION line %q", line)
		}
		row := VehicleTypeRow{
			NumAvailable:     int(vals[0]),
			Capacity:         vals[1],
			Depot:            int(vals[2]) - 1,
			FixedCost:        vals[3],
			TWEarly:          vals[4],
			TWLate:           vals[5],
			MaxDuration:      vals[6],
			MaxDistance:      vals[7],
			UnitDistanceCost: vals[8],
		}
		if len(vals) >= 10 {
			row.UnitDurationCost = vals[9]
		}
		inst.VehicleTypes = append(inst.VehicleTypes, row)

	case "ALLOWED_CLIENTS_SECTION":
		vals, err := parseInts(toks)
		if err != nil || len(vals) < 1 {
			return fmt.Errorf("vrplib: malformed ALLOWED_CLIENTS_SECTION line %q", line)
		}
		vehicleTypeIdx := int(vals[0])
		allowed := make([]int, len(vals)-1)
		for i, v := range vals[1:] {
			allowed[i] = int(v) - 1
		}
		if inst.AllowedClients == nil {
			inst.AllowedClients = make(map[int][]int)
		}
		inst.AllowedClients[vehicleTypeIdx] = allowed

	default:
		// Unrecognized section: ignore the line — the recognized-sections set
		// is an allowlist, not an exhaustive one.
	}
	return nil
}

func growCoords(coords []struct{ X, Y int64 }, n int) []struct{ X, Y int64 } {
	for len(coords) < n {
		coords = append(coords, struct{ X, Y int64 }{})
	}
	return coords
}

// normalizeDepots verifies its depot-index contract: 1-based in
// the file (already converted to 0-based by this point), contiguous from
// index 0, and forming the lowest indices. If no DEPOT_SECTION was present,
// node 0 is assumed to be the sole depot (the common VRPLIB convention).
func normalizeDepots(inst *Instance) error {
	if len(inst.DepotIndices) == 0 {
		inst.DepotIndices = []int{0}
		return nil
	}
	for i, d := range inst.DepotIndices {
		if d != i {
			return fmt.Errorf("vrplib: depot indices must be contiguous starting from 1 (got depot at position %d with index %d)", i, d+1)
		}
	}
	return nil
}
