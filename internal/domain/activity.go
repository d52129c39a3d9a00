package domain

import "time"

// Direction distinguishes upload and download transfer runs.
type Direction string

const (
	DirectionUpload   Direction = "UPLOAD"
	DirectionDownload Direction = "DOWNLOAD"
)

func (d Direction) String() string { return string(d) }

func (d Direction) IsValid() bool {
	switch d {
	case DirectionUpload, DirectionDownload:
		return true
	}
	return false
}

// TransferActivity records a single per-file transfer outcome for audit.
type TransferActivity struct {
	ID        string    `gorm:"type:uuid;primaryKey"`
	Filename  string    `gorm:"type:varchar(64);not null"`
	Direction Direction `gorm:"type:varchar(10);not null"`
	Succeeded bool      `gorm:"not null"`
	Detail    *string   `gorm:"type:text"`
	CreatedAt time.Time
}
