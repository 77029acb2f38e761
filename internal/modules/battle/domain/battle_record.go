package domain

import "time"

// BattleRecordStatus defines the status of a battle record
type BattleRecordStatus int

const (
	BattleRecordStatusInProgress BattleRecordStatus = 0
	BattleRecordStatusSettled    BattleRecordStatus = 1
)

// BattleRecord is the audit row written for every battle: created when the
// room activates, result filled in exactly once at settlement.
type BattleRecord struct {
	RecordID  string             `gorm:"primaryKey;type:varchar(64)" json:"record_id"`
	RoomID    string             `gorm:"index;type:varchar(32);not null" json:"room_id"`
	PlayerA   string             `gorm:"type:varchar(64);not null" json:"player_a"`
	PlayerB   string             `gorm:"type:varchar(64);not null" json:"player_b"`
	WagerA    int64              `gorm:"not null;default:0" json:"wager_a"`
	WagerB    int64              `gorm:"not null;default:0" json:"wager_b"`
	ScoreA    int64              `gorm:"not null;default:0" json:"score_a"`
	ScoreB    int64              `gorm:"not null;default:0" json:"score_b"`
	Winner    string             `gorm:"type:varchar(64)" json:"winner"` // empty = tie
	Status    BattleRecordStatus `gorm:"type:int;not null;default:0" json:"status"`
	StartedAt time.Time          `gorm:"not null" json:"started_at"`
	EndedAt   *time.Time         `json:"ended_at"`
}

// TableName overrides the table name
func (BattleRecord) TableName() string {
	return "battle_records"
}
