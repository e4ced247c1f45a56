/*
DESCRIPTION
  quantizer.go implements the VarDCT quantizer of spec.md §4.11:
  globalScale/quantDc decoded via 2-bit selectors, and the derived
  per-channel DC/AC inverse step tables.

AUTHORS
  Dana Virtanen <dana@jxlcore.dev>

LICENSE
  MIT
*/

package vardct

import "github.com/jxlcore/jxlcore/internal/field"

// defaultDcQuant are the default per-channel DC quant multipliers of
// spec.md §4.11, for channels ordered (X, Y, B).
var defaultDcQuant = [3]float64{1.0 / 4096, 1.0 / 512, 1.0 / 256}

// Quantizer holds the decoded globalScale/quantDc and the derived
// inverse-scale constants used by dequantization.
type Quantizer struct {
	GlobalScale int32
	QuantDc     int32

	invGlobalScale float64
}

// ReadQuantizer reads a Quantizer bundle using the conventional 2-bit
// selector shape for globalScale and quantDc (small constant fast paths
// with wider fallbacks), per spec.md §4.11.
func ReadQuantizer(fr *field.Reader) Quantizer {
	q := Quantizer{
		GlobalScale: int32(fr.U32(field.Val(2048), field.BitsOffset(9, 0), field.BitsOffset(12, 512), field.BitsOffset(16, 4096))),
		QuantDc:     int32(fr.U32(field.Val(16), field.BitsOffset(5, 0), field.BitsOffset(8, 32), field.BitsOffset(16, 288))),
	}
	if q.GlobalScale < 1 {
		q.GlobalScale = 1
	}
	q.invGlobalScale = 65536.0 / float64(q.GlobalScale)
	return q
}

// InvGlobalScale returns 2^16 / globalScale.
func (q Quantizer) InvGlobalScale() float64 { return q.invGlobalScale }

// InvQuantAc returns invGlobalScale / quantStep for an AC coefficient
// quantized with step quantStep.
func (q Quantizer) InvQuantAc(quantStep int32) float64 {
	if quantStep == 0 {
		return 0
	}
	return q.invGlobalScale / float64(quantStep)
}

// DcStep returns the per-channel DC dequantization step: invGlobalScale
// / quantDc * dcQuant[channel].
func (q Quantizer) DcStep(channel int) float64 {
	if channel < 0 || channel >= len(defaultDcQuant) {
		channel = 0
	}
	if q.QuantDc == 0 {
		return 0
	}
	return q.invGlobalScale / float64(q.QuantDc) * defaultDcQuant[channel]
}
