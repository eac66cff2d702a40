package dsp

// Resampler converts a sample stream from one rate to another by linear
// interpolation between neighboring input samples. It keeps fractional
// phase across calls so chunk boundaries introduce no discontinuity.
//
// No band-limiting filter is applied before decimation. That is a known
// limitation, acceptable while target rates stay near typical source
// rates; aliasing grows as the ratio drops.
type Resampler struct {
	step float64 // source samples consumed per output sample
	pos  float64 // fractional read position into src
	src  []float64
}

// NewResampler returns a resampler converting inRate to outRate.
func NewResampler(inRate, outRate float64) *Resampler {
	return &Resampler{
		step: inRate / outRate,
	}
}

// Passthrough reports whether the resampler is an identity copy.
func (rs *Resampler) Passthrough() bool {
	return rs.step == 1.0
}

// Resample consumes in and returns the resampled output. In passthrough
// mode it returns in unchanged; the caller must not retain the slice
// across calls either way.
func (rs *Resampler) Resample(in []float64) []float64 {
	if rs.step == 1.0 {
		return in
	}

	rs.src = append(rs.src, in...)
	if len(rs.src) < 2 {
		return nil
	}

	var out []float64
	fLen := float64(len(rs.src))

	for rs.pos+1.0 < fLen {
		i := int(rs.pos)
		frac := rs.pos - float64(i)
		out = append(out, rs.src[i]*(1.0-frac)+rs.src[i+1]*frac)
		rs.pos += rs.step
	}

	// Drop consumed samples, keeping one for interpolation.
	if consumed := int(rs.pos); consumed > 0 && consumed < len(rs.src) {
		n := copy(rs.src, rs.src[consumed:])
		rs.src = rs.src[:n]
		rs.pos -= float64(consumed)
	}

	return out
}
