// Package level implements the chunk lifecycle manager: watcher reference
// counting, the loaded-chunk table, race-safe load-or-generate, and the
// background persistence path back to Anvil region files.
package level

import (
	"context"
	"encoding/binary"
	"fmt"
	"math"
	"path/filepath"
	"runtime"
	"strconv"
	"sync"

	"github.com/cespare/xxhash/v2"
	"github.com/df-mc/atomic"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/semaphore"
	"golang.org/x/sync/singleflight"

	"github.com/go-mclib/server/internal/blockpos"
	"github.com/go-mclib/server/internal/chunk"
	"github.com/go-mclib/server/internal/region"
)

const shardCount = 32

// Generator produces a freshly generated chunk when no persisted copy exists.
type Generator interface {
	Generate(pos blockpos.ChunkPos) (*chunk.ChunkData, error)
}

type loadedShard struct {
	mu     sync.RWMutex
	chunks map[int64]*chunk.ChunkData
}

type watcherShard struct {
	mu     sync.RWMutex
	counts map[int64]*atomic.Uint32
}

// Manager owns every loaded chunk and its watcher count for one world.
type Manager struct {
	loaded   [shardCount]loadedShard
	watchers [shardCount]watcherShard

	worldRoot   string
	generator   Generator
	dataVersion int32
	compression region.Compression

	regionMu    sync.Mutex
	regionFiles map[[2]int32]*region.File

	sf singleflight.Group

	// genSem bounds concurrent chunk generation independently of how many
	// FetchChunks callers are in flight: generation is CPU-bound and runs on
	// its own pool, separate from the I/O work of reading/writing region
	// files (spec §5's two-scheduling-domain model).
	genSem *semaphore.Weighted

	persistQueue chan *chunk.ChunkData
	stopping     atomic.Bool
	workers      sync.WaitGroup
}

// New builds a Manager rooted at worldRoot, backed by generator for chunks
// with no persisted copy, and starts its background persistence worker.
func New(worldRoot string, generator Generator, dataVersion int32) *Manager {
	m := &Manager{
		worldRoot:    worldRoot,
		generator:    generator,
		dataVersion:  dataVersion,
		compression:  region.CompressionZlib,
		regionFiles:  make(map[[2]int32]*region.File),
		genSem:       semaphore.NewWeighted(int64(runtime.GOMAXPROCS(0))),
		persistQueue: make(chan *chunk.ChunkData, 256),
	}
	for i := range m.loaded {
		m.loaded[i].chunks = make(map[int64]*chunk.ChunkData)
	}
	for i := range m.watchers {
		m.watchers[i].counts = make(map[int64]*atomic.Uint32)
	}
	m.workers.Add(1)
	go m.persistWorker()
	return m
}

func shardIndex(key int64) int {
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(key))
	return int(xxhash.Sum64(buf[:]) % shardCount)
}

// MarkWatched increments pos's watcher count, saturating at uint32 max with an
// error log on overflow instead of wrapping.
func (m *Manager) MarkWatched(pos blockpos.ChunkPos) {
	key := pos.Key()
	shard := &m.watchers[shardIndex(key)]

	shard.mu.Lock()
	counter, ok := shard.counts[key]
	if !ok {
		counter = new(atomic.Uint32)
		shard.counts[key] = counter
	}
	shard.mu.Unlock()

	for {
		old := counter.Load()
		if old == math.MaxUint32 {
			logrus.Errorf("level: watcher count for chunk %+v overflowed, saturating", pos)
			return
		}
		if counter.CAS(old, old+1) {
			return
		}
	}
}

// UnmarkWatched decrements pos's watcher count, saturating at zero. It reports
// whether the count reached zero, in which case the caller may evict the chunk.
func (m *Manager) UnmarkWatched(pos blockpos.ChunkPos) bool {
	key := pos.Key()
	shard := &m.watchers[shardIndex(key)]

	shard.mu.RLock()
	counter, ok := shard.counts[key]
	shard.mu.RUnlock()
	if !ok {
		return false
	}

	for {
		old := counter.Load()
		if old == 0 {
			return false
		}
		next := old - 1
		if !counter.CAS(old, next) {
			continue
		}
		if next != 0 {
			return false
		}
		shard.mu.Lock()
		if current, ok := shard.counts[key]; ok && current == counter && current.Load() == 0 {
			delete(shard.counts, key)
		}
		shard.mu.Unlock()
		return true
	}
}

// FetchResult is delivered once per requested position by FetchChunks.
type FetchResult struct {
	Pos       blockpos.ChunkPos
	Chunk     *chunk.ChunkData
	FirstLoad bool
	Err       error
}

// FetchChunks resolves each position to a loaded chunk, loading from disk or
// generating as needed, and delivers one FetchResult per position to sink.
// Concurrent callers racing on the same position are collapsed by singleflight
// so only the winning goroutine generates or reads from disk; everyone else
// observes FirstLoad=false.
func (m *Manager) FetchChunks(positions []blockpos.ChunkPos, sink func(FetchResult)) {
	for _, pos := range positions {
		pos := pos
		key := pos.Key()
		shard := &m.loaded[shardIndex(key)]

		shard.mu.RLock()
		existing, ok := shard.chunks[key]
		shard.mu.RUnlock()
		if ok {
			sink(FetchResult{Pos: pos, Chunk: existing, FirstLoad: false})
			continue
		}

		// ran is set only in the goroutine whose closure singleflight executes;
		// callers that joined its flight share the outcome but not FirstLoad.
		ran := false
		v, err, _ := m.sf.Do(strconv.FormatInt(key, 36), func() (interface{}, error) {
			ran = true
			shard.mu.RLock()
			if c, ok := shard.chunks[key]; ok {
				shard.mu.RUnlock()
				return fetchOutcome{chunk: c, firstLoad: false}, nil
			}
			shard.mu.RUnlock()

			loaded, err := m.loadOrGenerate(pos)
			if err != nil {
				return nil, err
			}

			shard.mu.Lock()
			if existing, ok := shard.chunks[key]; ok {
				shard.mu.Unlock()
				return fetchOutcome{chunk: existing, firstLoad: false}, nil
			}
			shard.chunks[key] = loaded
			shard.mu.Unlock()

			m.schedulePersist(loaded)
			return fetchOutcome{chunk: loaded, firstLoad: true}, nil
		})

		if err != nil {
			sink(FetchResult{Pos: pos, Err: err})
			continue
		}
		outcome := v.(fetchOutcome)
		sink(FetchResult{Pos: pos, Chunk: outcome.chunk, FirstLoad: outcome.firstLoad && ran})
	}
}

type fetchOutcome struct {
	chunk     *chunk.ChunkData
	firstLoad bool
}

func (m *Manager) loadOrGenerate(pos blockpos.ChunkPos) (*chunk.ChunkData, error) {
	rf, err := m.regionFileFor(pos)
	if err != nil {
		return nil, fmt.Errorf("level: opening region file: %w", err)
	}

	root, err := rf.Read(pos)
	switch {
	case err == nil:
		return chunk.FromDiskNBT(root), nil
	case err == region.ChunkNotExist:
		return m.generate(pos)
	default:
		if _, ok := err.(*region.ParsingError); ok {
			logrus.Warnf("level: chunk %+v not generated on disk, generating fresh: %v", pos, err)
			return m.generate(pos)
		}
		return nil, err
	}
}

// generate runs chunk generation on the bounded CPU-bound pool: it acquires a
// slot on genSem before calling into the generator and releases it
// afterwards, so the number of concurrent generations is capped independently
// of how many FetchChunks callers are currently blocked waiting on one.
func (m *Manager) generate(pos blockpos.ChunkPos) (*chunk.ChunkData, error) {
	if m.generator == nil {
		return chunk.New(pos, m.dataVersion), nil
	}
	if err := m.genSem.Acquire(context.Background(), 1); err != nil {
		return nil, fmt.Errorf("level: acquiring generator slot: %w", err)
	}
	defer m.genSem.Release(1)
	return m.generator.Generate(pos)
}

func (m *Manager) regionFileFor(pos blockpos.ChunkPos) (*region.File, error) {
	rx, rz := region.RegionOf(pos)
	key := [2]int32{rx, rz}

	m.regionMu.Lock()
	defer m.regionMu.Unlock()

	if rf, ok := m.regionFiles[key]; ok {
		return rf, nil
	}
	path := filepath.Join(m.worldRoot, "region", region.FileName(rx, rz))
	rf, err := region.Open(path)
	if err != nil {
		return nil, err
	}
	m.regionFiles[key] = rf
	return rf, nil
}

func (m *Manager) schedulePersist(c *chunk.ChunkData) {
	select {
	case m.persistQueue <- c:
	default:
		logrus.Warn("level: persistence queue full, saving synchronously")
		m.persistOne(c)
	}
}

func (m *Manager) persistWorker() {
	defer m.workers.Done()
	for c := range m.persistQueue {
		m.persistOne(c)
	}
}

func (m *Manager) persistOne(c *chunk.ChunkData) {
	rf, err := m.regionFileFor(c.Pos)
	if err != nil {
		logrus.Errorf("level: cannot open region file for chunk %+v: %v", c.Pos, err)
		return
	}
	if err := rf.Write(c.Pos, c.ToDiskNBT(), m.compression); err != nil {
		logrus.Errorf("level: failed to persist chunk %+v: %v", c.Pos, err)
		return
	}
	c.ClearDirty()
}

// CleanChunk removes pos from the loaded table, if present, and schedules a
// final persistence write.
func (m *Manager) CleanChunk(pos blockpos.ChunkPos) {
	key := pos.Key()
	shard := &m.loaded[shardIndex(key)]

	shard.mu.Lock()
	c, ok := shard.chunks[key]
	if ok {
		delete(shard.chunks, key)
	}
	shard.mu.Unlock()

	if ok {
		m.schedulePersist(c)
	}
}

// CleanMemory evicts every loaded chunk with no watchers left, persisting each
// as it goes. Intended to run periodically rather than on every unwatch.
func (m *Manager) CleanMemory() int {
	evicted := 0
	for i := range m.loaded {
		shard := &m.loaded[i]
		shard.mu.Lock()
		var toEvict []int64
		for key := range shard.chunks {
			if m.watcherCount(key) == 0 {
				toEvict = append(toEvict, key)
			}
		}
		for _, key := range toEvict {
			c := shard.chunks[key]
			delete(shard.chunks, key)
			m.schedulePersist(c)
			evicted++
		}
		shard.mu.Unlock()
	}
	return evicted
}

func (m *Manager) watcherCount(key int64) uint32 {
	shard := &m.watchers[shardIndex(key)]
	shard.mu.RLock()
	defer shard.mu.RUnlock()
	if counter, ok := shard.counts[key]; ok {
		return counter.Load()
	}
	return 0
}

// Save persists every loaded chunk synchronously. It does not wait for writes
// already queued to the background worker; Stop drains those.
func (m *Manager) Save() {
	for i := range m.loaded {
		shard := &m.loaded[i]
		shard.mu.RLock()
		chunks := make([]*chunk.ChunkData, 0, len(shard.chunks))
		for _, c := range shard.chunks {
			chunks = append(chunks, c)
		}
		shard.mu.RUnlock()

		for _, c := range chunks {
			m.persistOne(c)
		}
	}
}

// Stop signals the background persistence worker to drain its queue and exit.
// Callers must call Save first if they want a final consistent flush.
func (m *Manager) Stop() {
	if !m.stopping.CAS(false, true) {
		return
	}
	close(m.persistQueue)
	m.workers.Wait()

	m.regionMu.Lock()
	defer m.regionMu.Unlock()
	for _, rf := range m.regionFiles {
		if err := rf.Close(); err != nil {
			logrus.Warnf("level: error closing region file: %v", err)
		}
	}
}
