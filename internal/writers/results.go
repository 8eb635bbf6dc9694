package writers

import (
	"io"

	"oligoscreen/core/screen"
	"oligoscreen/internal/output"
)

func init() {
	Register(output.FormatJSON, func(w io.Writer, r *screen.Result, _ Options) error {
		return output.WriteJSON(w, r)
	})
	Register(output.FormatTSV, func(w io.Writer, r *screen.Result, opt Options) error {
		return output.WriteTSV(w, r, opt.Header)
	})
	Register(output.FormatSummary, func(w io.Writer, r *screen.Result, opt Options) error {
		return output.WriteSummary(w, r, opt.Header)
	})
	Register(output.FormatFASTA, func(w io.Writer, r *screen.Result, opt Options) error {
		return output.WriteFASTA(w, r, opt.RevComp)
	})
}
