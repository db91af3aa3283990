// Package worker implements the worker registry described in spec §3,
// §4.3: worker-id -> WorkerInfo, an address -> id reverse index, and a
// queue of detected-lost workers awaiting cleanup by the liveness
// monitor. The lost-workers queue has no capacity limit.
//
// Registry owns its own mutex and is the "workers" lock of spec §5: it
// guards the worker map, the address index, and the lost-workers queue.
// Per the documented lock order, workers is never held while acquiring
// ns or deps — callers that need to touch both release workers first.
package worker

import (
	crand "crypto/rand"
	"encoding/binary"
	"math/rand/v2"
	"net"
	"strings"
	"sync"

	"golang.org/x/time/rate"

	"github.com/tachyon-project/tachyon-master/internal/errs"
	"github.com/tachyon-project/tachyon-master/internal/queue"
)

// registrationRateLimit and registrationBurst configure the registration
// rate limiter. A registration over the limit is still accepted; Register
// only reports it as throttled, and the caller logs a warning.
const (
	registrationRateLimit rate.Limit = 200
	registrationBurst                = 200
)

// Info is spec §3's WorkerInfo.
type Info struct {
	ID            int64
	Address       string
	CapacityBytes int64
	UsedBytes     int64
	Files         map[int32]struct{}
	LastUpdatedMs int64
}

// Command is the response to a heartbeat, per spec §4.3/§6.
type Command int

const (
	CommandNothing Command = iota
	CommandRegister
)

// Registry holds the live worker set and the lost-workers queue.
type Registry struct {
	mu sync.Mutex

	byID      map[int64]*Info
	byAddress map[string]int64

	lost queue.Queue[*Info]

	// startTimeNsPrefix is the master's start time in milliseconds,
	// rounded down to the nearest 1,000,000, used as the high-order part
	// of every allocated worker id so that ids from a previous master
	// incarnation never collide with this one (spec §4.3).
	startTimeNsPrefix int64
	counter           int64

	registrationLimiter *rate.Limiter
}

// New builds an empty Registry. startTimeMs is the master's start time in
// milliseconds (used to derive the id prefix).
func New(startTimeMs int64) *Registry {
	return &Registry{
		byID:                make(map[int64]*Info),
		byAddress:           make(map[string]int64),
		lost:                queue.NewLinkedListQueue[*Info](),
		startTimeNsPrefix:   (startTimeMs / 1_000_000) * 1_000_000,
		registrationLimiter: rate.NewLimiter(registrationRateLimit, registrationBurst),
	}
}


// Lock and Unlock implement sync.Locker for the "workers" lock (spec §5).
func (r *Registry) Lock()   { r.mu.Lock() }
func (r *Registry) Unlock() { r.mu.Unlock() }

// Register implements spec §4.3's registerWorker steps 1-3 (the
// namespace-touching step 4 — adding this worker's address to each
// current file's locations — is the caller's responsibility, since it
// requires the "ns" lock and workers must never be held alongside it).
// If an evicted prior registration existed at this address, it is
// returned so the caller can enqueue it on the lost-workers queue;
// resolves spec §9's registerWorker-cleanup open question by looking the
// address up once and removing it from both indices together.
// throttled reports that this registration exceeded the registration rate
// limit; it is still honored (spec §6 defines no rejection outcome for
// registerWorker) but the caller logs it. Requires the lock held.
func (r *Registry) Register(address string, capacityBytes, usedBytes int64, nowMs int64) (id int64, evicted *Info, throttled bool) {
	throttled = !r.registrationLimiter.Allow()

	if prevID, ok := r.byAddress[address]; ok {
		evicted = r.byID[prevID]
		delete(r.byID, prevID)
		delete(r.byAddress, address)
	}

	r.counter++
	id = r.startTimeNsPrefix + r.counter

	info := &Info{
		ID:            id,
		Address:       address,
		CapacityBytes: capacityBytes,
		UsedBytes:     usedBytes,
		Files:         make(map[int32]struct{}),
		LastUpdatedMs: nowMs,
	}
	r.byID[id] = info
	r.byAddress[address] = id
	return id, evicted, throttled
}

// EnqueueLost pushes info onto the lost-workers queue, for the liveness
// monitor to drain. Requires the lock held.
func (r *Registry) EnqueueLost(info *Info) {
	if info != nil {
		r.lost.Push(info)
	}
}

// DrainLost pops and returns every currently-queued lost worker. Requires
// the lock held.
func (r *Registry) DrainLost() []*Info {
	var out []*Info
	for !r.lost.IsEmpty() {
		out = append(out, r.lost.Pop())
	}
	return out
}

// Heartbeat implements spec §4.3's workerHeartbeat, minus the
// namespace-side location cleanup the caller performs for each removed
// file id. Requires the lock held.
func (r *Registry) Heartbeat(workerID int64, usedBytes int64, removedFileIDs []int32, nowMs int64) Command {
	info, ok := r.byID[workerID]
	if !ok {
		return CommandRegister
	}
	info.UsedBytes = usedBytes
	info.LastUpdatedMs = nowMs
	for _, id := range removedFileIDs {
		delete(info.Files, id)
	}
	return CommandNothing
}

// AddFile records that worker workerID holds file fileID. Requires the
// lock held.
func (r *Registry) AddFile(workerID int64, fileID int32) {
	if info, ok := r.byID[workerID]; ok {
		info.Files[fileID] = struct{}{}
	}
}

// UpdateUsage sets a worker's reported used bytes without touching
// LastUpdatedMs, for cachedFile/addCheckpoint calls that report usage
// outside a full heartbeat (spec §4.3). Requires the lock held.
func (r *Registry) UpdateUsage(workerID int64, usedBytes int64) {
	if info, ok := r.byID[workerID]; ok {
		info.UsedBytes = usedBytes
	}
}

// Get returns the worker with the given id, or nil. Requires the lock
// held.
func (r *Registry) Get(workerID int64) *Info {
	return r.byID[workerID]
}

// TimedOut removes and returns every worker whose LastUpdatedMs is older
// than timeoutMs relative to nowMs, per spec §4.3's liveness sweep step
// 1. Requires the lock held.
func (r *Registry) TimedOut(nowMs, timeoutMs int64) []*Info {
	var out []*Info
	for id, info := range r.byID {
		if nowMs-info.LastUpdatedMs > timeoutMs {
			out = append(out, info)
			delete(r.byID, id)
			delete(r.byAddress, info.Address)
		}
	}
	return out
}

// All returns a snapshot slice of every registered worker. Requires the
// lock held.
func (r *Registry) All() []*Info {
	out := make([]*Info, 0, len(r.byID))
	for _, info := range r.byID {
		out = append(out, info)
	}
	return out
}

// Count returns the number of registered workers. Requires the lock
// held.
func (r *Registry) Count() int { return len(r.byID) }

// CapacityBytes returns the sum of every worker's capacity. Requires the
// lock held.
func (r *Registry) CapacityBytes() int64 {
	var total int64
	for _, info := range r.byID {
		total += info.CapacityBytes
	}
	return total
}

// UsedBytes returns the sum of every worker's used bytes. Requires the
// lock held.
func (r *Registry) UsedBytes() int64 {
	var total int64
	for _, info := range r.byID {
		total += info.UsedBytes
	}
	return total
}

// workerRand is a single, process-wide, well-seeded generator used for
// uniform random worker selection, resolving spec §9's open question
// about the source's non-uniform, freshly-reseeded-per-call picker.
// Seeded once from crypto/rand at process start rather than per call.
var workerRand = newWorkerRand()

func newWorkerRand() *rand.Rand {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		// crypto/rand failing is effectively unrecoverable on any real
		// platform; fall back to a fixed seed rather than crash the
		// package at init time.
		return rand.New(rand.NewPCG(1, 1))
	}
	s1 := binary.LittleEndian.Uint64(seed[0:8])
	s2 := binary.LittleEndian.Uint64(seed[8:16])
	return rand.New(rand.NewPCG(s1, s2))
}

// GetWorker implements spec §4.1's getWorker(random, host): a uniformly
// random worker if random is true, else the worker whose address
// host-part matches host. Requires the lock held.
func (r *Registry) GetWorker(random bool, host string) (*Info, error) {
	if random {
		if len(r.byID) == 0 {
			return nil, errs.ErrNoLocalWorker
		}
		all := r.All()
		return all[workerRand.IntN(len(all))], nil
	}
	for _, info := range r.byID {
		h, _, err := net.SplitHostPort(info.Address)
		if err != nil {
			h = strings.SplitN(info.Address, ":", 2)[0]
		}
		if h == host {
			return info, nil
		}
	}
	return nil, errs.ErrNoLocalWorker
}
