package dehaze

// RecoverRadiance inverts the haze model in the complemented color space
// and complements the result back:
//
//	J = (I - A) / max(T, t0) + A,  out = 1 - J
//
// with I and A scaled to [0,1]. The output is not clamped and may leave
// [0,1] where the transmission is small.
func RecoverRadiance(inv, atm *Image3, trans *Plane, t0 float64) *Image3 {
	out := NewImage3(inv.H, inv.W)
	for p, t := range trans.Pix {
		t = max(t, t0)
		for c := range Channels {
			i := p*Channels + c
			a := atm.Pix[i] / 255
			j := (inv.Pix[i]/255-a)/t + a
			out.Pix[i] = 1 - j
		}
	}
	return out
}
