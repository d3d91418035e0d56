// Package sostest provides an in-process SOS endpoint for tests.
package sostest

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
)

// Request is one request received by a Server.
type Request struct {
	RawQuery string
	Query    url.Values
	Header   http.Header
}

// Server answers the KVP GET binding with canned JSON documents keyed by the
// request parameter. Setting Status to anything but 0 or 200 makes every
// response fail with that status and Body.
type Server struct {
	*httptest.Server

	mu       sync.Mutex
	requests []Request

	Capabilities     string
	DataAvailability string
	Features         string
	// Observations maps a featureOfInterest to its GetObservation document;
	// the empty key answers any other feature.
	Observations map[string]string

	Status int
	Body   string
}

// NewServer starts a Server primed with the default fixtures.
func NewServer() *Server {
	s := &Server{
		Capabilities:     CapabilitiesJSON,
		DataAvailability: DataAvailabilityJSON,
		Features:         FeaturesJSON,
		Observations:     map[string]string{"": ScalarObservationsJSON},
	}
	s.Server = httptest.NewServer(http.HandlerFunc(s.serve))
	return s
}

// Requests returns the requests received so far.
func (s *Server) Requests() []Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Request, len(s.requests))
	copy(out, s.requests)
	return out
}

// Last returns the most recent request.
func (s *Server) Last() Request {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.requests) == 0 {
		return Request{}
	}
	return s.requests[len(s.requests)-1]
}

// SetDataAvailability replaces the GetDataAvailability document.
func (s *Server) SetDataAvailability(doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.DataAvailability = doc
}

// SetFeatures replaces the GetFeatureOfInterest document.
func (s *Server) SetFeatures(doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Features = doc
}

// SetObservations replaces the GetObservation document answered for foi;
// an empty foi sets the fallback document.
func (s *Server) SetObservations(foi, doc string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Observations[foi] = doc
}

// SetStatus switches the server into failure mode.
func (s *Server) SetStatus(status int, body string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Status = status
	s.Body = body
}

func (s *Server) serve(w http.ResponseWriter, r *http.Request) {
	q, _ := url.ParseQuery(r.URL.RawQuery)

	s.mu.Lock()
	s.requests = append(s.requests, Request{RawQuery: r.URL.RawQuery, Query: q, Header: r.Header.Clone()})
	status, body := s.Status, s.Body
	var doc string
	switch q.Get("request") {
	case "GetCapabilities":
		doc = s.Capabilities
	case "GetDataAvailability":
		doc = s.DataAvailability
	case "GetFeatureOfInterest":
		doc = s.Features
	case "GetObservation":
		var ok bool
		if doc, ok = s.Observations[q.Get("featureOfInterest")]; !ok {
			doc = s.Observations[""]
		}
	default:
		status, body = http.StatusBadRequest, `{"exceptions":[{"code":"OperationNotSupported"}]}`
	}
	s.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	if status != 0 && status != http.StatusOK {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
		return
	}
	_, _ = w.Write([]byte(doc))
}
