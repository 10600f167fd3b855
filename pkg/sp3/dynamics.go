package sp3

// ResolveVelocitiesMut walks every satellite's entries in ascending epoch
// order and fills in any missing velocity as the first difference of
// position over the epoch gap. The first entry of each satellite is never
// resolvable. On any success, the header data type is upgraded to
// DataTypeVelocity. Reports whether anything was filled.
func ResolveVelocitiesMut(rec *Record) bool {
	upgraded := false

	for _, sv := range rec.Store.satellites {
		var prev Entry
		var prevEpoch Epoch
		havePrev := false

		for _, epoch := range rec.Store.epochs {
			entry, ok := rec.Store.Get(sv, epoch)
			if !ok {
				continue
			}

			if havePrev && entry.VelocityKmS == nil {
				if dt := epoch.Sub(prevEpoch).Seconds(); dt != 0 {
					v := firstDifference(entry.PositionKm, prev.PositionKm, dt)
					entry.VelocityKmS = &v
					rec.Store.Insert(sv, epoch, entry)
					upgraded = true
				}
			}

			prev, prevEpoch, havePrev = entry, epoch, true
		}
	}

	if upgraded {
		rec.Header.DataType = DataTypeVelocity
	}
	return upgraded
}

// ResolveVelocities clones rec and applies ResolveVelocitiesMut to the
// clone, leaving rec untouched.
func ResolveVelocities(rec *Record) *Record {
	clone := rec.Clone()
	ResolveVelocitiesMut(clone)
	return clone
}

// ResolveClockDriftMut walks every satellite's entries in ascending epoch
// order and fills in any missing clock drift as the first difference of
// clock offset over the epoch gap, converted from µs/s to ns/s. It never
// overwrites an existing drift and skips entries (or their predecessor)
// whose clock is absent. Reports whether anything was filled.
func ResolveClockDriftMut(rec *Record) bool {
	filled := false

	for _, sv := range rec.Store.satellites {
		var prev Entry
		var prevEpoch Epoch
		havePrev := false

		for _, epoch := range rec.Store.epochs {
			entry, ok := rec.Store.Get(sv, epoch)
			if !ok {
				continue
			}

			if havePrev && entry.ClockDriftNs == nil && entry.ClockUs != nil && prev.ClockUs != nil {
				if dt := epoch.Sub(prevEpoch).Seconds(); dt != 0 {
					drift := clockDriftNs(*entry.ClockUs, *prev.ClockUs, dt)
					entry.ClockDriftNs = &drift
					rec.Store.Insert(sv, epoch, entry)
					filled = true
				}
			}

			prev, prevEpoch, havePrev = entry, epoch, true
		}
	}

	return filled
}

// ResolveClockDrift clones rec and applies ResolveClockDriftMut to the
// clone, leaving rec untouched.
func ResolveClockDrift(rec *Record) *Record {
	clone := rec.Clone()
	ResolveClockDriftMut(clone)
	return clone
}

// ResolveDynamicsMut performs velocity and clock-drift resolution in a
// single walk over the full previous entry, upgrading the header data
// type to DataTypeVelocity only if at least one field was filled.
func ResolveDynamicsMut(rec *Record) bool {
	upgraded := false

	for _, sv := range rec.Store.satellites {
		var prev Entry
		var prevEpoch Epoch
		havePrev := false

		for _, epoch := range rec.Store.epochs {
			entry, ok := rec.Store.Get(sv, epoch)
			if !ok {
				continue
			}

			filled := false
			if havePrev {
				if dt := epoch.Sub(prevEpoch).Seconds(); dt != 0 {
					if entry.VelocityKmS == nil {
						v := firstDifference(entry.PositionKm, prev.PositionKm, dt)
						entry.VelocityKmS = &v
						filled = true
					}
					if entry.ClockDriftNs == nil && entry.ClockUs != nil && prev.ClockUs != nil {
						drift := clockDriftNs(*entry.ClockUs, *prev.ClockUs, dt)
						entry.ClockDriftNs = &drift
						filled = true
					}
				}
			}

			if filled {
				rec.Store.Insert(sv, epoch, entry)
				upgraded = true
			}
			prev, prevEpoch, havePrev = entry, epoch, true
		}
	}

	if upgraded {
		rec.Header.DataType = DataTypeVelocity
	}
	return upgraded
}

// ResolveDynamics clones rec and applies ResolveDynamicsMut to the clone,
// leaving rec untouched.
func ResolveDynamics(rec *Record) *Record {
	clone := rec.Clone()
	ResolveDynamicsMut(clone)
	return clone
}

func firstDifference(now, prev [3]float64, dtSeconds float64) [3]float64 {
	return [3]float64{
		(now[0] - prev[0]) / dtSeconds,
		(now[1] - prev[1]) / dtSeconds,
		(now[2] - prev[2]) / dtSeconds,
	}
}

// clockDriftNs converts a clock offset first difference, expressed in
// microseconds over dtSeconds, into nanoseconds per second.
func clockDriftNs(nowUs, prevUs, dtSeconds float64) float64 {
	return (nowUs - prevUs) / dtSeconds * 1000
}
