package week

import "github.com/curbsignal/curbsignal/core/model"

// Optimize resolves the side choice for every day whose ParkOnSide is still
// unset. Each unresolved day adopts the side of the first later resolved day
// (park where you will next need to be); with nothing ahead it keeps the
// most recent resolved side (no reason to move); with nothing resolved at
// all it defaults to far. The input is not mutated and the pass is
// idempotent.
func Optimize(w model.WeekView) model.WeekView {
	days := make([]model.DayFact, len(w.Days))
	copy(days, w.Days)

	for i := range days {
		if days[i].ParkOnSide != model.SideUnset {
			continue
		}
		if side, ok := nextResolved(days, i); ok {
			days[i].ParkOnSide = side
			continue
		}
		if side, ok := prevResolved(days, i); ok {
			days[i].ParkOnSide = side
			continue
		}
		days[i].ParkOnSide = model.SideFar
	}

	out := w
	out.Days = days
	return out
}

func nextResolved(days []model.DayFact, from int) (model.Side, bool) {
	for i := from + 1; i < len(days); i++ {
		if days[i].ParkOnSide != model.SideUnset {
			return days[i].ParkOnSide, true
		}
	}
	return model.SideUnset, false
}

func prevResolved(days []model.DayFact, from int) (model.Side, bool) {
	for i := from - 1; i >= 0; i-- {
		if days[i].ParkOnSide != model.SideUnset {
			return days[i].ParkOnSide, true
		}
	}
	return model.SideUnset, false
}
