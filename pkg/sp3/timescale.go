package sp3

// TransposeSimple rewrites every epoch of rec (including the header's
// release epoch, week and MJD) into the target timescale using the
// built-in offset model, and returns a new record. Epoch ordering can
// change under transposition, so the store is rebuilt rather than
// mutated key by key.
func TransposeSimple(rec *Record, to Scale) *Record {
	out := rec.Clone()
	out.Header.Timescale = to
	out.Header.ReleaseEpoch = rec.Header.ReleaseEpoch.Convert(to)
	syncReferenceFields(&out.Header)

	rebuilt := NewStore()
	for p := range rec.Store.Positions() {
		entry, _ := rec.Store.Get(p.SV, p.Epoch)
		rebuilt.Insert(p.SV, p.Epoch.Convert(to), entry)
	}
	out.Store = rebuilt

	return out
}

// Correction is one entry of a CorrectionDatabase: a polynomial valid
// over [From, To) for transposing Source epochs into Target.
type Correction struct {
	Source, Target Scale
	From, To       Epoch
	Polynomial     Polynomial
}

// Polynomial evaluates a correction offset, in seconds, to add to an
// epoch expressed as seconds since the correction's validity window
// start.
type Polynomial func(tSeconds float64) float64

// CorrectionDatabase looks up the polynomial correction applicable to an
// epoch when transposing between two timescales.
type CorrectionDatabase interface {
	Lookup(source, target Scale, at Epoch) (Correction, bool)
}

// TransposePrecise rewrites every epoch of rec into the target timescale
// using db-supplied polynomial corrections instead of the built-in offset
// model. It fails with NoCorrectionAvailable if no correction covers an
// epoch. The header's week and MJD are derived from the same polynomial
// applied to the header's reference epoch.
func TransposePrecise(rec *Record, to Scale, db CorrectionDatabase) (*Record, error) {
	out := rec.Clone()

	releaseEpoch, err := applyCorrection(rec.Header.ReleaseEpoch, to, db)
	if err != nil {
		return nil, err
	}
	out.Header.Timescale = to
	out.Header.ReleaseEpoch = releaseEpoch
	syncReferenceFields(&out.Header)

	rebuilt := NewStore()
	for p := range rec.Store.Positions() {
		entry, _ := rec.Store.Get(p.SV, p.Epoch)
		converted, err := applyCorrection(p.Epoch, to, db)
		if err != nil {
			return nil, err
		}
		rebuilt.Insert(p.SV, converted, entry)
	}
	out.Store = rebuilt

	return out, nil
}

func applyCorrection(e Epoch, to Scale, db CorrectionDatabase) (Epoch, error) {
	if e.Scale() == to {
		return e, nil
	}

	correction, ok := db.Lookup(e.Scale(), to, e)
	if !ok {
		return Epoch{}, &NoCorrectionAvailable{Source: e.Scale(), Target: to}
	}

	elapsed := e.Sub(correction.From).Seconds()
	offset := correction.Polynomial(elapsed)
	return Epoch{unixNanos: e.unixNanos + int64(offset*1e9), scale: to}, nil
}

// syncReferenceFields recomputes h's week/MJD fields from its (already
// transposed) release epoch.
func syncReferenceFields(h *Header) {
	week, weekNanos := gpsWeekAndNanos(h.ReleaseEpoch)
	h.Week = week
	h.WeekNanos = weekNanos
	h.MJD, h.MJDFraction = modifiedJulianDate(h.ReleaseEpoch)
}
