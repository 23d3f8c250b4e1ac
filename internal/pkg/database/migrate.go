package database

import (
	"LittleStories/internal/model"
	"fmt"
	log "log/slog"

	"gorm.io/gorm"
)

// Migrate 建表并安装评分聚合触发器
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(model.AllModels()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	for _, stmt := range collationSQL(db.Dialector.Name()) {
		if err := db.Exec(stmt).Error; err != nil {
			return fmt.Errorf("pin column collation: %w", err)
		}
	}
	if err := InstallRatingTriggers(db); err != nil {
		return fmt.Errorf("install rating triggers: %w", err)
	}
	log.Info("Database schema migrated.", "driver", db.Dialector.Name())
	return nil
}

// InstallRatingTriggers stories.avg_rating / rating_count 由 ratings 的增删改触发重算（简单平均）
func InstallRatingTriggers(db *gorm.DB) error {
	stmts, err := ratingTriggerSQL(db.Dialector.Name())
	if err != nil {
		return err
	}
	tx := db.Session(&gorm.Session{PrepareStmt: false})
	for _, stmt := range stmts {
		if err = tx.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}

// collationSQL 用户名按字节比较，MySQL 默认排序规则不区分大小写
func collationSQL(dialect string) []string {
	if dialect != DriverMySQL {
		return nil
	}
	return []string{
		"ALTER TABLE users MODIFY username varchar(50) CHARACTER SET utf8mb4 COLLATE utf8mb4_bin NOT NULL",
	}
}

func ratingTriggerSQL(dialect string) ([]string, error) {
	switch dialect {
	case DriverSQLite:
		return []string{
			"DROP TRIGGER IF EXISTS trg_ratings_after_insert",
			"DROP TRIGGER IF EXISTS trg_ratings_after_update",
			"DROP TRIGGER IF EXISTS trg_ratings_after_delete",
			"CREATE TRIGGER trg_ratings_after_insert AFTER INSERT ON ratings BEGIN " + refreshStory("NEW") + "; END",
			"CREATE TRIGGER trg_ratings_after_update AFTER UPDATE ON ratings BEGIN " + refreshStory("NEW") + "; " + refreshStory("OLD") + "; END",
			"CREATE TRIGGER trg_ratings_after_delete AFTER DELETE ON ratings BEGIN " + refreshStory("OLD") + "; END",
		}, nil
	case DriverMySQL:
		return []string{
			"DROP TRIGGER IF EXISTS trg_ratings_after_insert",
			"DROP TRIGGER IF EXISTS trg_ratings_after_update",
			"DROP TRIGGER IF EXISTS trg_ratings_after_delete",
			"CREATE TRIGGER trg_ratings_after_insert AFTER INSERT ON ratings FOR EACH ROW " + refreshStory("NEW"),
			"CREATE TRIGGER trg_ratings_after_update AFTER UPDATE ON ratings FOR EACH ROW " + refreshStory("NEW"),
			"CREATE TRIGGER trg_ratings_after_delete AFTER DELETE ON ratings FOR EACH ROW " + refreshStory("OLD"),
		}, nil
	case DriverPostgres:
		return []string{
			`CREATE OR REPLACE FUNCTION refresh_story_rating() RETURNS trigger AS $$
DECLARE
	sid varchar(36);
BEGIN
	IF TG_OP = 'DELETE' THEN
		sid := OLD.story_id;
	ELSE
		sid := NEW.story_id;
	END IF;
	UPDATE stories SET
		avg_rating = COALESCE((SELECT AVG(rating) FROM ratings WHERE story_id = sid), 0),
		rating_count = (SELECT COUNT(*) FROM ratings WHERE story_id = sid)
	WHERE story_id = sid;
	RETURN NULL;
END;
$$ LANGUAGE plpgsql`,
			"DROP TRIGGER IF EXISTS trg_ratings_refresh ON ratings",
			"CREATE TRIGGER trg_ratings_refresh AFTER INSERT OR UPDATE OR DELETE ON ratings FOR EACH ROW EXECUTE FUNCTION refresh_story_rating()",
		}, nil
	default:
		return nil, fmt.Errorf("no rating triggers for dialect %q", dialect)
	}
}

func refreshStory(row string) string {
	return fmt.Sprintf(
		"UPDATE stories SET avg_rating = COALESCE((SELECT AVG(rating) FROM ratings WHERE story_id = %[1]s.story_id), 0), "+
			"rating_count = (SELECT COUNT(*) FROM ratings WHERE story_id = %[1]s.story_id) WHERE story_id = %[1]s.story_id",
		row,
	)
}
