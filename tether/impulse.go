package tether

// absorbImpulse folds motion this kernel did not produce (the host moved the
// body since last tick) into the tracked velocity. A paused body (dt 0)
// absorbs nothing.
func (t *Tether) absorbImpulse(dt float64) {
	position := t.Body.Position()
	if position == t.lastPosition || dt <= 0 {
		return
	}

	implied := position.Sub(t.lastPosition).Mul(1 / dt)
	t.velocity = t.velocity.Add(implied).Mul(0.5)
}
