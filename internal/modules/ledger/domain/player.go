package domain

import (
	"sync"
	"time"

	"github.com/bwmarrin/snowflake"
)

// Player holds a user's cookie balance and battle tallies
type Player struct {
	Username  string    `gorm:"primaryKey;type:varchar(64)" json:"username"`
	Cookies   int64     `gorm:"not null;default:0" json:"cookies"`
	Upgrades  int64     `gorm:"not null;default:0" json:"upgrades"`
	Wins      int64     `gorm:"not null;default:0" json:"wins"`
	Losses    int64     `gorm:"not null;default:0" json:"losses"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName overrides the table name
func (Player) TableName() string {
	return "players"
}

// MatchRecord is one append-only match-history entry
type MatchRecord struct {
	RecordID  string      `gorm:"primaryKey;type:varchar(64)" json:"record_id"`
	Username  string      `gorm:"index;type:varchar(64);not null" json:"username"`
	Opponent  string      `gorm:"type:varchar(64);not null" json:"opponent"`
	Result    MatchResult `gorm:"type:varchar(8);not null" json:"result"`
	CreatedAt time.Time   `gorm:"autoCreateTime" json:"created_at"`
}

// TableName overrides the table name
func (MatchRecord) TableName() string {
	return "match_records"
}

var (
	node *snowflake.Node
	once sync.Once
)

func initSnowflake() {
	var err error
	// Each instance needs a unique NodeID in a multi-instance deployment.
	node, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// NewMatchRecord creates a match-history entry with a generated ID
func NewMatchRecord(username, opponent string, result MatchResult) *MatchRecord {
	once.Do(initSnowflake)
	return &MatchRecord{
		RecordID: node.Generate().String(),
		Username: username,
		Opponent: opponent,
		Result:   result,
	}
}

// NewRecordID generates a snowflake ID for audit rows
func NewRecordID() string {
	once.Do(initSnowflake)
	return node.Generate().String()
}
