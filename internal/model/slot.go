package model

// Slot identifies one of the clinically distinct glucose measurement slots
// recorded in self-monitoring spreadsheets.
type Slot string

const (
	SlotFasting       Slot = "fasting"
	SlotPostBreakfast Slot = "post_breakfast_1h"
	SlotPreLunch      Slot = "pre_lunch"
	SlotPostLunch     Slot = "post_lunch_1h"
	SlotPreDinner     Slot = "pre_dinner"
	SlotPostDinner    Slot = "post_dinner_1h"
	SlotOvernight     Slot = "overnight"
)

// AllSlots lists the supported measurement slots in day order.
var AllSlots = []Slot{
	SlotFasting,
	SlotPostBreakfast,
	SlotPreLunch,
	SlotPostLunch,
	SlotPreDinner,
	SlotPostDinner,
	SlotOvernight,
}

// insulinSlots are the checks only prescribed to patients on insulin
// therapy; diet-managed patients log fasting and post-meal values only.
var insulinSlots = map[Slot]bool{
	SlotPreLunch:  true,
	SlotPreDinner: true,
	SlotOvernight: true,
}

// InsulinOnly reports whether the slot is part of the insulin-therapy
// monitoring protocol.
func (s Slot) InsulinOnly() bool {
	return insulinSlots[s]
}

// SlotByName returns the Slot with the given string value, or ok=false.
func SlotByName(name string) (Slot, bool) {
	for _, s := range AllSlots {
		if string(s) == name {
			return s, true
		}
	}
	return "", false
}
