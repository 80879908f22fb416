// Package httpapi exposes the scheduler's read surface over HTTP: per-cycle
// command lookup, batch status, a full trace dump, process health, and
// profiling, grounded on monitoring/monitor.go's gorilla/mux-routed
// monitoring server.
package httpapi

import (
	"bytes"
	"encoding/json"
	"net"
	"net/http"
	"os"

	// Registers the /debug/pprof/* handlers on DefaultServeMux.
	_ "net/http/pprof"
	"runtime/pprof"
	"strconv"
	"strings"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"
	"gopkg.in/yaml.v3"

	"github.com/sahil-g0/dramsched"
	"github.com/sahil-g0/dramsched/internal/schedmem"
)

// Server exposes sched's read surface over HTTP. Grounded on monitoring's
// Monitor: a chainable WithPortNumber builder method and a StartServer
// method that listens in the background.
type Server struct {
	sched      *dramsched.Scheduler
	portNumber int
}

// New creates a Server reading from sched.
func New(sched *dramsched.Scheduler) *Server {
	return &Server{sched: sched}
}

// WithPortNumber sets the TCP port the server listens on. A value below
// 1000 is rejected the same way monitoring.Monitor rejects privileged
// ports, falling back to an OS-assigned port.
func (s *Server) WithPortNumber(port int) *Server {
	if port < 1000 {
		port = 0
	}

	s.portNumber = port

	return s
}

type statusResponse struct {
	BatchID          string `json:"batch_id"`
	State            string `json:"state"`
	NumRequests      int    `json:"num_requests"`
	NumSRREntries    int    `json:"num_srr_entries"`
	NumSBREntries    int    `json:"num_sbr_entries"`
	ScheduleBusy     bool   `json:"schedule_busy"`
	ScheduleDone     bool   `json:"schedule_done"`
	CriticalPathBank *bank  `json:"critical_path_bank,omitempty"`
}

type bank struct {
	BankGroup int `json:"bank_group"`
	Bank      int `json:"bank"`
}

type slotResponse struct {
	Cycle     int    `json:"cycle"`
	Command   string `json:"command"`
	BankGroup int    `json:"bank_group"`
	Bank      int    `json:"bank"`
	Row       int    `json:"row"`
	Column    int    `json:"column"`
	RequestID int    `json:"request_id"`
}

// Router builds the mux.Router this server answers with, split out from
// StartServer so tests can exercise routes without binding a socket.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()

	r.HandleFunc("/batches/{id}/status", s.status)
	r.HandleFunc("/batches/{id}/cycles/{n}", s.cycle)
	r.HandleFunc("/batches/{id}/trace", s.trace)
	r.HandleFunc("/health", s.health)
	r.HandleFunc("/debug/profile", s.profile)
	r.HandleFunc("/debug/components", s.components)
	r.HandleFunc("/debug/fields/{json}", s.field)

	return r
}

// StartServer listens on the configured port (or an OS-assigned one) and
// serves in the background, matching monitoring.Monitor.StartServer.
func (s *Server) StartServer() (net.Addr, error) {
	listener, err := net.Listen("tcp", ":"+strconv.Itoa(s.portNumber))
	if err != nil {
		return nil, err
	}

	go func() {
		_ = http.Serve(listener, s.Router())
	}()

	return listener.Addr(), nil
}

func (s *Server) status(w http.ResponseWriter, r *http.Request) {
	rsp := statusResponse{
		BatchID:       s.sched.BatchID(),
		State:         s.sched.State().String(),
		NumRequests:   s.sched.NumRequests(),
		NumSRREntries: s.sched.NumSRREntries(),
		NumSBREntries: s.sched.NumSBREntries(),
		ScheduleBusy:  s.sched.ScheduleBusy(),
		ScheduleDone:  s.sched.ScheduleDone(),
	}

	if bg, bk, ok := s.sched.CriticalPathBank(); ok {
		rsp.CriticalPathBank = &bank{BankGroup: bg, Bank: bk}
	}

	writeJSON(w, rsp)
}

func (s *Server) cycle(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(mux.Vars(r)["n"])
	if err != nil {
		http.Error(w, "invalid cycle number", http.StatusBadRequest)
		return
	}

	writeJSON(w, slotToResponse(s.sched.Read(n)))
}

func (s *Server) trace(w http.ResponseWriter, r *http.Request) {
	slots := make([]slotResponse, 0, s.sched.MaxCycle()+1)
	for c := 0; c <= s.sched.MaxCycle(); c++ {
		slots = append(slots, slotToResponse(s.sched.Read(c)))
	}

	if r.Header.Get("Accept") == "application/yaml" {
		data, err := yaml.Marshal(slots)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}

		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(data)

		return
	}

	writeJSON(w, slots)
}

type healthResponse struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemoryRSS  uint64  `json:"memory_rss_bytes"`
}

// health reports process RSS/CPU, grounded on monitoring/monitor.go's
// listResources handler and its use of gopsutil/process.
func (s *Server) health(w http.ResponseWriter, _ *http.Request) {
	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	cpuPercent, err := proc.CPUPercent()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	memInfo, err := proc.MemoryInfo()
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, healthResponse{CPUPercent: cpuPercent, MemoryRSS: memInfo.RSS})
}

// profile captures a one-second CPU profile and returns it as parsed
// pprof profile data, grounded on monitoring/monitor.go's collectProfile.
func (s *Server) profile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	if err := pprof.StartCPUProfile(buf); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	time.Sleep(time.Second)
	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	writeJSON(w, prof)
}

// components dumps the coordinator's own field tree one level deep,
// grounded on monitoring/monitor.go's listComponentDetails.
func (s *Server) components(w http.ResponseWriter, r *http.Request) {
	serializer := goseth.NewSerializer()
	serializer.SetRoot(s.sched)
	serializer.SetMaxDepth(1)

	if err := serializer.Serialize(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

type fieldReq struct {
	FieldName string `json:"field_name"`
}

// field drills into one dotted field path under the coordinator, e.g.
// {"field_name":"cst.TRAS"}, grounded on monitoring/monitor.go's
// listFieldValue.
func (s *Server) field(w http.ResponseWriter, r *http.Request) {
	jsonString := mux.Vars(r)["json"]

	var req fieldReq
	if err := json.Unmarshal([]byte(jsonString), &req); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	fields := strings.Split(req.FieldName, ".")

	serializer := goseth.NewSerializer()
	serializer.SetRoot(s.sched)
	serializer.SetMaxDepth(1)

	if err := serializer.SetEntryPoint(fields); err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	if err := serializer.Serialize(w); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func slotToResponse(slot schedmem.Slot) slotResponse {
	return slotResponse{
		Cycle:     slot.Cycle,
		Command:   slot.Cmd.String(),
		BankGroup: slot.BankGroup,
		Bank:      slot.Bank,
		Row:       slot.Row,
		Column:    slot.Column,
		RequestID: slot.RequestID,
	}
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")

	data, err := json.Marshal(v)
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	_, _ = w.Write(data)
}
