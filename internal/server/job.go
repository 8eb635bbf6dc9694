// internal/server/job.go
package server

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/grailbio/base/log"

	"oligoscreen/core/align"
	"oligoscreen/core/fasta"
	"oligoscreen/core/screen"
	"oligoscreen/internal/output"
	"oligoscreen/internal/runutil"
	"oligoscreen/pkg/api"
)

// job is one worklist entry. Fields other than the atomics are guarded by
// Server.mu.
type job struct {
	id        string
	name      string
	lengths   int
	status    string
	submitted time.Time
	finished  time.Time

	in     input
	result *screen.Result
	err    error
	saved  string

	progress  atomic.Int64 // length index << 32 | positions done
	positions atomic.Int64 // at the current length
}

// input is a validated job request.
type input struct {
	template   fasta.Record
	refs, excl []fasta.Record
	params     screen.Params
	align      align.Params
}

func toRecords(seqs []api.SequenceV1, normalize func(fasta.Record) (fasta.Record, error)) ([]fasta.Record, error) {
	out := make([]fasta.Record, len(seqs))
	for i, s := range seqs {
		r, err := normalize(fasta.Record{Name: s.Name, Seq: []byte(s.Seq)})
		if err != nil {
			return nil, err
		}
		out[i] = r
	}
	return out, nil
}

// parseRequest validates everything a run would reject, so a queued job
// only fails for reasons outside the request.
func parseRequest(req api.JobRequestV1, threads int) (input, error) {
	var in input
	pv := api.DefaultParams()
	if req.Params != nil {
		pv = *req.Params
	}
	p, a, err := output.ParamsFromAPI(pv)
	if err != nil {
		return in, err
	}
	p.Threads = threads
	if _, err := screen.New(p, a); err != nil {
		return in, err
	}
	if in.template, err = fasta.NormalizeTemplate(fasta.Record{Name: req.Template.Name, Seq: []byte(req.Template.Seq)}); err != nil {
		return in, err
	}
	if p.MaxLength > in.template.Len() {
		return in, fmt.Errorf("%w: max length %d exceeds template length %d", screen.ErrInvalidInput, p.MaxLength, in.template.Len())
	}
	if len(req.References) == 0 {
		return in, fmt.Errorf("%w: no reference sequences", screen.ErrInvalidInput)
	}
	if in.refs, err = toRecords(req.References, fasta.Normalize); err != nil {
		return in, err
	}
	if in.excl, err = toRecords(req.Exclusivity, fasta.Normalize); err != nil {
		return in, err
	}
	in.params, in.align = p, a
	return in, nil
}

func (s *Server) enqueue(in input) (*job, error) {
	j := &job{
		id:        uuid.New().String(),
		name:      in.template.Name,
		lengths:   in.params.MaxLength - in.params.MinLength + 1,
		status:    api.JobQueued,
		submitted: time.Now().UTC(),
		in:        in,
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	select {
	case s.queue <- j:
	default:
		return nil, fmt.Errorf("worklist full (%d jobs)", cap(s.queue))
	}
	s.jobs[j.id] = j
	s.order = append(s.order, j.id)
	return j, nil
}

// screenInput runs one input to completion, reporting progress into j when
// it is non-nil.
func screenInput(in input, j *job) (*screen.Result, error) {
	var opts []screen.Option
	if j != nil {
		opts = append(opts, screen.WithProgress(func(p screen.Progress) {
			j.report(p)
		}))
	}
	sc, err := screen.New(in.params, in.align, opts...)
	if err != nil {
		return nil, err
	}
	return sc.Run(in.template, in.refs, in.excl)
}

// report records p. Workers call it concurrently and out of order; the
// length index and positions done are packed into one counter that only
// moves forward.
func (j *job) report(p screen.Progress) {
	next := int64(p.LengthIndex)<<32 | int64(p.Done)
	for {
		cur := j.progress.Load()
		if next <= cur {
			return
		}
		if j.progress.CompareAndSwap(cur, next) {
			j.positions.Store(int64(p.Positions))
			return
		}
	}
}

func (s *Server) run(j *job) {
	s.mu.Lock()
	if j.status != api.JobQueued { // deleted while waiting
		s.mu.Unlock()
		return
	}
	j.status = api.JobRunning
	s.mu.Unlock()

	res, err := screenInput(j.in, j)
	if err == nil {
		res.ID = j.id
	}
	saved := ""
	if err == nil && s.cfg.OutDir != "" {
		saved = runutil.AutoSavePath(s.cfg.OutDir, res.TemplateName, res.ID)
		if serr := output.SaveJSON(saved, res); serr != nil {
			log.Error.Printf("job %s: auto-save: %v", j.id, serr)
			saved = ""
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	j.finished = time.Now().UTC()
	j.in = input{} // release the sequences
	if err != nil {
		j.status, j.err = api.JobFailed, err
		log.Error.Printf("job %s failed: %v", j.id, err)
	} else {
		j.status, j.result, j.saved = api.JobDone, res, saved
		j.progress.Store(int64(len(res.Lengths)) << 32)
		log.Printf("job %s done", j.id)
	}
	if dropped, ok := s.finished.Add(j.id); ok {
		s.forget(dropped)
	}
}

// forget removes a job and its retention slot; s.mu must be held.
func (s *Server) forget(id string) {
	s.finished.Remove(id)
	delete(s.jobs, id)
	for i, o := range s.order {
		if o == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
}

// statusV1 renders j; s.mu must be held.
func (j *job) statusV1() api.JobStatusV1 {
	v := api.JobStatusV1{
		ID:           j.id,
		Status:       j.status,
		TemplateName: j.name,
		Submitted:    j.submitted,
		Lengths:      j.lengths,
		SavedTo:      j.saved,
	}
	prog := j.progress.Load()
	v.LengthsDone = int(prog >> 32)
	if j.status == api.JobRunning {
		v.Positions = int(j.positions.Load())
		v.PositionDone = int(prog & (1<<32 - 1))
	}
	if !j.finished.IsZero() {
		f := j.finished
		v.Finished = &f
	}
	if j.err != nil {
		v.Error = j.err.Error()
	}
	return v
}
