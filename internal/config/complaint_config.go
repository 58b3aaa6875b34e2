package config

import "time"

const (
	// Reminder
	ReminderInterval = 24 * time.Hour

	// Notifications
	MaxImagesPerNotification = 4
	MapsSearchURL            = "https://www.google.com/maps/search/?api=1&query="
	MapsFallbackURL          = "https://www.google.com/maps"

	// Evidence file names
	ImagePrefixBefore = "complaint"
	ImagePrefixAfter  = "after"
	DefaultImageExt   = ".jpg"

	// LINE intake
	DraftTTL            = time.Hour
	WebhookDedupeTTL    = 24 * time.Hour
	DefaultLineSubject  = "แจ้งผ่าน LINE (ไม่มีรายละเอียด)"
	MaxUploadFileBytes  = 10 << 20
	MaxMultipartMemory  = 32 << 20
	FeedChannel         = "complaints:events"
	DefaultPageSize     = 20
	MaxPageSize         = 100
	DefaultLanguage     = "th"
	StaffTokenLifetime  = 72 * time.Hour
	DefaultIntakeQueue  = 100
	DefaultIntakeWorker = 4
)
