package database

import "togather/internal/models"

// PersistentModels returns the authoritative set of schema-managed GORM models.
func PersistentModels() []interface{} {
	return []interface{}{
		&models.User{},
		&models.Post{},
		&models.Participant{},
		&models.Comment{},
		&models.Chat{},
		&models.Message{},
	}
}
