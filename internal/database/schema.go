package database

import (
	"context"
	"database/sql"
	"fmt"
)

// Bootstrap creates the schema when it does not exist yet. Statements are
// ordered so foreign key targets exist before their referrers. It is safe
// to run on every startup.
func Bootstrap(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS users (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			username VARCHAR(64) NOT NULL UNIQUE,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role ENUM('ADMIN','OWNER','DEALER') NOT NULL DEFAULT 'DEALER',
			full_name VARCHAR(255) NULL,
			club_owner_id BIGINT UNSIGNED NULL,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			last_login DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS refresh_tokens (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			user_id BIGINT UNSIGNED NOT NULL,
			token_hash CHAR(64) NOT NULL UNIQUE,
			expires_at DATETIME NOT NULL,
			revoked_at DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			CONSTRAINT fk_refresh_user FOREIGN KEY (user_id) REFERENCES users(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS clubs (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			owner_id BIGINT UNSIGNED NOT NULL,
			address VARCHAR(255) NULL,
			phone_number VARCHAR(32) NULL,
			license_limit INT UNSIGNED NOT NULL DEFAULT 0,
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_club_owner FOREIGN KEY (owner_id) REFERENCES users(id)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS club_tables (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			club_id BIGINT UNSIGNED NOT NULL,
			name VARCHAR(255) NOT NULL,
			dealer_id BIGINT UNSIGNED NULL,
			max_seats INT UNSIGNED NOT NULL DEFAULT 9,
			default_seat_status VARCHAR(16) NOT NULL DEFAULT 'Open',
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_table_club FOREIGN KEY (club_id) REFERENCES clubs(id) ON DELETE CASCADE,
			CONSTRAINT fk_table_dealer FOREIGN KEY (dealer_id) REFERENCES users(id) ON DELETE SET NULL
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS players (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			club_id BIGINT UNSIGNED NOT NULL,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NULL,
			phone_number VARCHAR(32) NULL,
			notes TEXT NULL,
			total_play_time BIGINT NOT NULL DEFAULT 0,
			last_played DATETIME NULL,
			created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_player_club FOREIGN KEY (club_id) REFERENCES clubs(id) ON DELETE CASCADE,
			INDEX idx_players_club (club_id)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS table_sessions (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			table_id BIGINT UNSIGNED NOT NULL,
			dealer_id BIGINT UNSIGNED NULL,
			name VARCHAR(255) NOT NULL DEFAULT '',
			is_active TINYINT(1) NOT NULL DEFAULT 1,
			start_time DATETIME NOT NULL,
			end_time DATETIME NULL,
			total_time BIGINT NOT NULL DEFAULT 0,
			CONSTRAINT fk_session_table FOREIGN KEY (table_id) REFERENCES club_tables(id) ON DELETE CASCADE,
			INDEX idx_sessions_table_active (table_id, is_active)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS table_seats (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			table_id BIGINT UNSIGNED NOT NULL,
			position INT UNSIGNED NOT NULL,
			status VARCHAR(16) NOT NULL DEFAULT 'Open',
			player_id BIGINT UNSIGNED NULL,
			session_id BIGINT UNSIGNED NULL,
			time_started DATETIME NULL,
			time_elapsed BIGINT NOT NULL DEFAULT 0,
			version BIGINT UNSIGNED NOT NULL DEFAULT 0,
			UNIQUE KEY uq_seat_position (table_id, position),
			CONSTRAINT fk_seat_table FOREIGN KEY (table_id) REFERENCES club_tables(id) ON DELETE CASCADE,
			CONSTRAINT fk_seat_player FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE SET NULL,
			CONSTRAINT fk_seat_session FOREIGN KEY (session_id) REFERENCES table_sessions(id) ON DELETE SET NULL
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS player_time_records (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			player_id BIGINT UNSIGNED NOT NULL,
			seat_id BIGINT UNSIGNED NOT NULL,
			session_id BIGINT UNSIGNED NULL,
			start_time DATETIME NOT NULL,
			end_time DATETIME NULL,
			duration BIGINT NOT NULL DEFAULT 0,
			CONSTRAINT fk_record_player FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
			CONSTRAINT fk_record_seat FOREIGN KEY (seat_id) REFERENCES table_seats(id) ON DELETE CASCADE,
			INDEX idx_records_player_open (player_id, end_time),
			INDEX idx_records_session (session_id)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS player_queue (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			club_id BIGINT UNSIGNED NOT NULL,
			player_id BIGINT UNSIGNED NOT NULL,
			table_id BIGINT UNSIGNED NULL,
			priority INT NOT NULL DEFAULT 0,
			status ENUM('waiting','assigned','removed') NOT NULL DEFAULT 'waiting',
			notes TEXT NULL,
			joined_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
			assigned_at DATETIME NULL,
			CONSTRAINT fk_queue_club FOREIGN KEY (club_id) REFERENCES clubs(id) ON DELETE CASCADE,
			CONSTRAINT fk_queue_player FOREIGN KEY (player_id) REFERENCES players(id) ON DELETE CASCADE,
			INDEX idx_queue_club_status (club_id, status)
		) ENGINE=InnoDB`,

		`CREATE TABLE IF NOT EXISTS club_player_limits (
			id BIGINT UNSIGNED AUTO_INCREMENT PRIMARY KEY,
			club_id BIGINT UNSIGNED NOT NULL UNIQUE,
			max_players INT UNSIGNED NOT NULL DEFAULT 0,
			current_players INT UNSIGNED NOT NULL DEFAULT 0,
			updated_by BIGINT UNSIGNED NULL,
			updated_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
			CONSTRAINT fk_limits_club FOREIGN KEY (club_id) REFERENCES clubs(id) ON DELETE CASCADE
		) ENGINE=InnoDB`,
	}

	for _, s := range stmts {
		if _, err := db.ExecContext(ctx, s); err != nil {
			return fmt.Errorf("bootstrap schema: %w", err)
		}
	}
	return nil
}
