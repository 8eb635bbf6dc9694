package appcore

import (
	"io"

	"github.com/cheggaaa/pb/v3"

	"oligoscreen/core/screen"
)

// progressBar renders screening progress over all grid cells. A nil
// *progressBar is a no-op.
type progressBar struct {
	bar *pb.ProgressBar
}

func newProgressBar(w io.Writer, total int) *progressBar {
	bar := pb.New(total)
	bar.SetWriter(w)
	bar.Start()
	return &progressBar{bar: bar}
}

// update is the screen.Progress hook; pb counters are safe for concurrent use.
func (p *progressBar) update(screen.Progress) { p.bar.Increment() }

func (p *progressBar) finish() {
	if p == nil {
		return
	}
	p.bar.Finish()
}
