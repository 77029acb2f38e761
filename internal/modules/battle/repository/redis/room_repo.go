// Package redis provides the Redis-backed room repository.
package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Srekanthnamilakonda/Pookie/internal/modules/battle/domain"
)

// RoomRepository implements domain.RoomRepository on Redis. Room state is
// split across a meta hash plus one hash each for readiness, scores and
// wagers. Guards and mutations run inside Lua scripts so they are atomic
// on the server; the meta hash carries the version for compare-and-swap.
type RoomRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRoomRepository creates a new Redis room repository
func NewRoomRepository(rdb *redis.Client) *RoomRepository {
	return &RoomRepository{
		rdb: rdb,
		ttl: 24 * time.Hour, // keep finished rooms around for status reads
	}
}

func metaKey(roomID string) string   { return fmt.Sprintf("battle_room:%s", roomID) }
func readyKey(roomID string) string  { return fmt.Sprintf("battle_ready:%s", roomID) }
func scoresKey(roomID string) string { return fmt.Sprintf("battle_scores:%s", roomID) }
func wagersKey(roomID string) string { return fmt.Sprintf("battle_wagers:%s", roomID) }

// createScript stores a new room iff the meta key is absent.
// KEYS: meta, ready, scores, wagers
// ARGV: playersJSON, phase, startMilli, endMilli, createdMilli, ttlMilli,
//       then per player: name, ready, score, wager
var createScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 1 then
  return 0
end
redis.call("HSET", KEYS[1],
  "players", ARGV[1], "phase", ARGV[2],
  "start_time", ARGV[3], "end_time", ARGV[4],
  "created_at", ARGV[5], "version", 1)
for i = 7, #ARGV, 4 do
  redis.call("HSET", KEYS[2], ARGV[i], ARGV[i+1])
  redis.call("HSET", KEYS[3], ARGV[i], ARGV[i+2])
  redis.call("HSET", KEYS[4], ARGV[i], ARGV[i+3])
end
for k = 1, 4 do
  redis.call("PEXPIRE", KEYS[k], ARGV[6])
end
return 1
`)

// updateScript rewrites the whole room iff the stored version matches.
// Returns the new version, 0 on conflict, -1 if the room is gone.
// KEYS: meta, ready, scores, wagers
// ARGV: expectedVersion, playersJSON, phase, startMilli, endMilli, ttlMilli,
//       then per player: name, ready, score, wager
var updateScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
local version = tonumber(redis.call("HGET", KEYS[1], "version"))
if version ~= tonumber(ARGV[1]) then
  return 0
end
redis.call("HSET", KEYS[1],
  "players", ARGV[2], "phase", ARGV[3],
  "start_time", ARGV[4], "end_time", ARGV[5],
  "version", version + 1)
redis.call("DEL", KEYS[2], KEYS[3], KEYS[4])
for i = 7, #ARGV, 4 do
  redis.call("HSET", KEYS[2], ARGV[i], ARGV[i+1])
  redis.call("HSET", KEYS[3], ARGV[i], ARGV[i+2])
  redis.call("HSET", KEYS[4], ARGV[i], ARGV[i+3])
end
for k = 1, 4 do
  redis.call("PEXPIRE", KEYS[k], ARGV[6])
end
return version + 1
`)

// incrScript bumps the player's score iff the room is active and inside
// the window. Returns the new score, or a negative guard code.
// KEYS: meta, scores  ARGV: player, nowMilli
var incrScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
if redis.call("HEXISTS", KEYS[2], ARGV[1]) == 0 then
  return -2
end
if redis.call("HGET", KEYS[1], "phase") ~= "active" then
  return -3
end
if tonumber(ARGV[2]) > tonumber(redis.call("HGET", KEYS[1], "end_time")) then
  return -4
end
redis.call("HINCRBY", KEYS[1], "version", 1)
return redis.call("HINCRBY", KEYS[2], ARGV[1], 1)
`)

// endScript flips active -> ended. Returns 1 if this call won the
// transition, 0 if already ended, -1 missing, -2 never activated.
// KEYS: meta
var endScript = redis.NewScript(`
if redis.call("EXISTS", KEYS[1]) == 0 then
  return -1
end
local phase = redis.call("HGET", KEYS[1], "phase")
if phase == "active" then
  redis.call("HSET", KEYS[1], "phase", "ended")
  redis.call("HINCRBY", KEYS[1], "version", 1)
  return 1
end
if phase == "ended" then
  return 0
end
return -2
`)

func (r *RoomRepository) keys(roomID string) []string {
	return []string{metaKey(roomID), readyKey(roomID), scoresKey(roomID), wagersKey(roomID)}
}

func roomArgs(room *domain.Room, ttl time.Duration) ([]interface{}, error) {
	players, err := json.Marshal(room.Players)
	if err != nil {
		return nil, err
	}
	args := []interface{}{
		string(players),
		string(room.Phase),
		room.StartTime.UnixMilli(),
		room.EndTime.UnixMilli(),
		ttl.Milliseconds(),
	}
	for _, p := range room.Players {
		ready := 0
		if room.Ready[p] {
			ready = 1
		}
		args = append(args, p, ready, room.Scores[p], room.Wagers[p])
	}
	return args, nil
}

func (r *RoomRepository) Create(ctx context.Context, room *domain.Room) error {
	args, err := roomArgs(room, r.ttl)
	if err != nil {
		return err
	}
	// ARGV[5] is created_at on create, ttl shifts to ARGV[6]
	argv := make([]interface{}, 0, len(args)+1)
	argv = append(argv, args[0], args[1], args[2], args[3], room.CreatedAt.UnixMilli(), r.ttl.Milliseconds())
	argv = append(argv, args[5:]...)

	res, err := createScript.Run(ctx, r.rdb, r.keys(room.RoomID), argv...).Int()
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	if res == 0 {
		return domain.ErrRoomExists
	}
	room.Version = 1
	return nil
}

func (r *RoomRepository) Get(ctx context.Context, roomID string) (*domain.Room, error) {
	pipe := r.rdb.Pipeline()
	metaCmd := pipe.HGetAll(ctx, metaKey(roomID))
	readyCmd := pipe.HGetAll(ctx, readyKey(roomID))
	scoresCmd := pipe.HGetAll(ctx, scoresKey(roomID))
	wagersCmd := pipe.HGetAll(ctx, wagersKey(roomID))
	if _, err := pipe.Exec(ctx); err != nil {
		return nil, fmt.Errorf("failed to load room: %w", err)
	}

	meta := metaCmd.Val()
	if len(meta) == 0 {
		return nil, domain.ErrRoomNotFound
	}

	var players []string
	if err := json.Unmarshal([]byte(meta["players"]), &players); err != nil {
		return nil, fmt.Errorf("corrupt players field: %w", err)
	}

	room := &domain.Room{
		RoomID:  roomID,
		Players: players,
		Ready:   make(map[string]bool, len(players)),
		Scores:  make(map[string]int64, len(players)),
		Wagers:  make(map[string]int64, len(players)),
		Phase:   domain.Phase(meta["phase"]),
	}
	room.StartTime = milliTime(meta["start_time"])
	room.EndTime = milliTime(meta["end_time"])
	room.CreatedAt = milliTime(meta["created_at"])
	room.Version, _ = strconv.ParseInt(meta["version"], 10, 64)

	for _, p := range players {
		room.Ready[p] = readyCmd.Val()[p] == "1"
		room.Scores[p], _ = strconv.ParseInt(scoresCmd.Val()[p], 10, 64)
		room.Wagers[p], _ = strconv.ParseInt(wagersCmd.Val()[p], 10, 64)
	}
	return room, nil
}

func (r *RoomRepository) Update(ctx context.Context, room *domain.Room) error {
	args, err := roomArgs(room, r.ttl)
	if err != nil {
		return err
	}
	argv := make([]interface{}, 0, len(args)+1)
	argv = append(argv, room.Version)
	argv = append(argv, args...)

	res, err := updateScript.Run(ctx, r.rdb, r.keys(room.RoomID), argv...).Int64()
	if err != nil {
		return fmt.Errorf("failed to update room: %w", err)
	}
	switch res {
	case -1:
		return domain.ErrRoomNotFound
	case 0:
		return domain.ErrVersionConflict
	default:
		room.Version = res
		return nil
	}
}

func (r *RoomRepository) IncrementScore(ctx context.Context, roomID, player string, now time.Time) (int64, error) {
	res, err := incrScript.Run(ctx, r.rdb,
		[]string{metaKey(roomID), scoresKey(roomID)},
		player, now.UnixMilli(),
	).Int64()
	if err != nil {
		return 0, fmt.Errorf("failed to increment score: %w", err)
	}
	switch res {
	case -1:
		return 0, domain.ErrRoomNotFound
	case -2:
		return 0, domain.ErrPlayerNotInRoom
	case -3:
		return 0, domain.ErrNotActive
	case -4:
		return 0, domain.ErrBattleOver
	default:
		return res, nil
	}
}

func (r *RoomRepository) EndRoom(ctx context.Context, roomID string) (*domain.Room, bool, error) {
	res, err := endScript.Run(ctx, r.rdb, []string{metaKey(roomID)}).Int()
	if err != nil {
		return nil, false, fmt.Errorf("failed to end room: %w", err)
	}
	switch res {
	case -1:
		return nil, false, domain.ErrRoomNotFound
	case -2:
		return nil, false, domain.ErrNotActive
	}

	room, err := r.Get(ctx, roomID)
	if err != nil {
		return nil, false, err
	}
	return room, res == 1, nil
}

func milliTime(s string) time.Time {
	ms, err := strconv.ParseInt(s, 10, 64)
	if err != nil || ms <= 0 {
		return time.Time{}
	}
	return time.UnixMilli(ms)
}
