package sp3

// WindowSample is one centered-window input to an InterpolationFunc: a
// sample epoch paired with the position it carries.
type WindowSample struct {
	Epoch      Epoch
	PositionKm [3]float64
}

// InterpolationFunc computes the interpolated position at t given a
// window of order+1 samples. Substituting this lets callers plug in a
// different scheme without reindexing the store.
type InterpolationFunc func(order int, t Epoch, window []WindowSample) [3]float64

// LagrangeInterpolate is the default InterpolationFunc: centered Lagrange
// polynomial interpolation,
//
//	P(t) = Σ_i p_i · Π_{j≠i} (t−t_j)/(t_i−t_j)
func LagrangeInterpolate(order int, t Epoch, window []WindowSample) [3]float64 {
	var result [3]float64

	tSeconds := func(e Epoch) float64 { return float64(e.Sub(window[0].Epoch)) }
	tt := tSeconds(t)

	for i, pi := range window {
		basis := 1.0
		ti := tSeconds(pi.Epoch)
		for j, pj := range window {
			if i == j {
				continue
			}
			tj := tSeconds(pj.Epoch)
			basis *= (tt - tj) / (ti - tj)
		}
		for axis := range result {
			result[axis] += pi.PositionKm[axis] * basis
		}
	}

	return result
}

// sampleEpsilon is the tolerance within which t is considered to
// coincide with a stored sample epoch.
const sampleEpsilon = 2 // nanoseconds

// Interpolate evaluates fn at t over a centered window of order+1 stable
// (non-maneuver) position samples drawn from s. order must be odd; an
// even order is a programmer error and panics. Returns ok=false when t
// falls before the first or after the last available window (no
// extrapolation).
func (s *Store) Interpolate(order int, t Epoch, fn InterpolationFunc) (pos [3]float64, ok bool) {
	if order%2 == 0 {
		panic(ErrEvenInterpolationOrder)
	}

	samples := collectStableSamples(s)
	window, ok := centeredWindow(samples, t, order)
	if !ok {
		return [3]float64{}, false
	}

	return fn(order, t, window), true
}

func collectStableSamples(s *Store) []WindowSample {
	var samples []WindowSample
	for p := range s.StablePositions() {
		samples = append(samples, WindowSample{Epoch: p.Epoch, PositionKm: p.PositionKm})
	}
	return samples
}

// centeredWindow picks the order+1 samples centered on t, per the tail
// rule: if t coincides with a sample, (order+1)/2-1 trailing samples are
// needed; otherwise (order+1)/2 trailing samples are needed.
func centeredWindow(samples []WindowSample, t Epoch, order int) ([]WindowSample, bool) {
	idx, exact := locate(samples, t)

	half := (order + 1) / 2
	tail := half
	if exact {
		tail = half - 1
	}

	var head int
	if exact {
		head = idx
	} else {
		head = idx - 1
	}

	start := head - (order - tail)
	end := head + tail

	if start < 0 || end >= len(samples) {
		return nil, false
	}

	return samples[start : end+1], true
}

// locate returns the index of the first sample at or after t, and
// whether that sample coincides with t within sampleEpsilon.
func locate(samples []WindowSample, t Epoch) (idx int, exact bool) {
	for i, s := range samples {
		diff := s.Epoch.Sub(t)
		if diff >= -sampleEpsilon && diff <= sampleEpsilon {
			return i, true
		}
		if s.Epoch.After(t) {
			return i, false
		}
	}
	return len(samples), false
}
