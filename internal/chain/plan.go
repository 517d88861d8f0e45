package chain

// PointerWrite is one single-row next-pointer update
type PointerWrite struct {
	ID   string
	Next *string
}

// PointerPlan is the minimal set of writes that realizes a move.
// Writes are applied in order, then the head is updated if HeadChanged.
type PointerPlan struct {
	Writes      []PointerWrite
	HeadChanged bool
	Head        *string
}

// moveState is everything a move needs to know about the current chain
type moveState struct {
	ID         string
	OldNext    *string
	Target     *string // nil moves to the head
	TargetNext *string
	Head       *string
	Pred       string // "" when nothing points at ID
}

// planMove computes the pointer plan for moving state.ID after state.Target.
// It returns ok=false when the move leaves the order unchanged.
func planMove(s moveState) (plan PointerPlan, ok bool) {
	if s.Target != nil && *s.Target == s.ID {
		return PointerPlan{}, false
	}
	if s.Target != nil && s.Pred != "" && *s.Target == s.Pred {
		return PointerPlan{}, false
	}
	isHead := s.Head != nil && *s.Head == s.ID
	if s.Target == nil && isHead {
		return PointerPlan{}, false
	}

	plan.Head = s.Head
	if s.Target != nil {
		plan.Writes = append(plan.Writes,
			PointerWrite{ID: s.ID, Next: s.TargetNext},
			PointerWrite{ID: *s.Target, Next: strPtr(s.ID)},
		)
	} else {
		plan.Writes = append(plan.Writes, PointerWrite{ID: s.ID, Next: s.Head})
		plan.Head = strPtr(s.ID)
		plan.HeadChanged = true
	}

	switch {
	case isHead:
		// Target is non-nil here: the moving course leaves the head slot.
		plan.Head = s.OldNext
		plan.HeadChanged = true
	case s.Pred != "":
		plan.Writes = append(plan.Writes, PointerWrite{ID: s.Pred, Next: s.OldNext})
	}
	return plan, true
}

func strPtr(s string) *string {
	return &s
}

func ptrEqual(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

func ptrString(p *string) string {
	if p == nil {
		return "<nil>"
	}
	return *p
}
