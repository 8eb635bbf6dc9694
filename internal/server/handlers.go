// internal/server/handlers.go
package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"oligoscreen/core/fasta"
	"oligoscreen/core/screen"
	"oligoscreen/internal/output"
	"oligoscreen/pkg/api"
)

func errorJSON(c *gin.Context, code int, err error) {
	c.JSON(code, gin.H{"error": err.Error()})
}

func (s *Server) bind(c *gin.Context) (input, bool) {
	var req api.JobRequestV1
	if err := c.ShouldBindJSON(&req); err != nil {
		errorJSON(c, http.StatusBadRequest, err)
		return input{}, false
	}
	in, err := parseRequest(req, s.cfg.Threads)
	if err != nil {
		code := http.StatusInternalServerError
		if errors.Is(err, screen.ErrInvalidInput) || errors.Is(err, fasta.ErrFormat) {
			code = http.StatusBadRequest
		}
		errorJSON(c, code, err)
		return input{}, false
	}
	return in, true
}

// POST /v1/jobs
func (s *Server) submitJob(c *gin.Context) {
	in, ok := s.bind(c)
	if !ok {
		return
	}
	j, err := s.enqueue(in)
	if err != nil {
		errorJSON(c, http.StatusServiceUnavailable, err)
		return
	}
	c.JSON(http.StatusAccepted, gin.H{"id": j.id})
}

// GET /v1/jobs
func (s *Server) listJobs(c *gin.Context) {
	s.mu.Lock()
	out := make([]api.JobStatusV1, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, s.jobs[id].statusV1())
	}
	s.mu.Unlock()
	c.JSON(http.StatusOK, out)
}

func (s *Server) lookup(c *gin.Context) (*job, bool) {
	j, ok := s.jobs[c.Param("id")]
	if !ok {
		errorJSON(c, http.StatusNotFound, errors.New("unknown job "+c.Param("id")))
	}
	return j, ok
}

// GET /v1/jobs/:id
func (s *Server) getJob(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if j, ok := s.lookup(c); ok {
		c.JSON(http.StatusOK, j.statusV1())
	}
}

// DELETE /v1/jobs/:id removes a queued or finished job.
func (s *Server) deleteJob(c *gin.Context) {
	s.mu.Lock()
	defer s.mu.Unlock()
	j, ok := s.lookup(c)
	if !ok {
		return
	}
	if j.status == api.JobRunning {
		errorJSON(c, http.StatusConflict, errors.New("job is running"))
		return
	}
	j.status = "deleted"
	s.forget(j.id)
	c.Status(http.StatusNoContent)
}

// GET /v1/jobs/:id/result
func (s *Server) getResult(c *gin.Context) {
	s.mu.Lock()
	j, ok := s.lookup(c)
	if !ok {
		s.mu.Unlock()
		return
	}
	status, res, jerr := j.status, j.result, j.err
	s.mu.Unlock()

	switch status {
	case api.JobDone:
		c.JSON(http.StatusOK, output.ToAPI(res))
	case api.JobFailed:
		errorJSON(c, http.StatusConflict, jerr)
	default:
		c.JSON(http.StatusConflict, gin.H{"error": "job not finished", "status": status})
	}
}

// POST /v1/screen runs a job synchronously, outside the worklist.
func (s *Server) screenNow(c *gin.Context) {
	in, ok := s.bind(c)
	if !ok {
		return
	}
	res, err := screenInput(in, nil)
	if err != nil {
		errorJSON(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, output.ToAPI(res))
}
