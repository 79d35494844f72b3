package repositories

import (
	"github.com/scholaris/resultportal/internal/db"
)

// Repositories contains all repository instances behind their interfaces
type Repositories struct {
	Transactor            Transactor
	AdminRepository       AdminRepository
	StudentRepository     StudentRepository
	ResultRepository      ResultRepository
	SettingsRepository    SettingsRepository
	ActivityLogRepository ActivityLogRepository
	TokenRepository       TokenRepository
}

// NewRepositories creates the Postgres-backed repositories
func NewRepositories(database *db.PostgresDB) *Repositories {
	pool := database.Pool
	return &Repositories{
		Transactor:            database,
		AdminRepository:       NewAdminRepository(pool),
		StudentRepository:     NewStudentRepository(pool),
		ResultRepository:      NewResultRepository(pool),
		SettingsRepository:    NewSettingsRepository(pool),
		ActivityLogRepository: NewActivityLogRepository(pool),
		TokenRepository:       NewTokenRepository(pool),
	}
}
