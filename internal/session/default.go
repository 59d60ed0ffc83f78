package session

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
)

type DefaultStore struct {
	path string
	db   *sql.DB
	now  func() time.Time
}

func NewDefaultStore(path string) *DefaultStore {
	return &DefaultStore{path: path, now: time.Now}
}

func (s *DefaultStore) Init() error {
	db, err := sql.Open("sqlite3", s.path)
	if err != nil {
		return fmt.Errorf("unable to open session store: %w", err)
	}

	initStatement := `
	create table if not exists sessions
	  (
		  sum text not null primary key,
		  position real,
		  rate real,
		  volume real,
		  updated integer
	  );
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		db.Close()
		return fmt.Errorf("unable to create session table: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultStore) Deinit() {
	if nil != s.db {
		s.db.Close()
		s.db = nil
	}
}

func (s *DefaultStore) Save(session Session) error {
	if session.Updated.IsZero() {
		session.Updated = s.now()
	}
	_, err := s.db.Exec(`
	insert into sessions(sum, position, rate, volume, updated) values(?, ?, ?, ?, ?)
	on conflict(sum) do update set
	  position = excluded.position,
	  rate = excluded.rate,
	  volume = excluded.volume,
	  updated = excluded.updated
	`, session.Checksum, session.Position, session.Rate, session.Volume, session.Updated.UnixMilli())
	if nil != err {
		return fmt.Errorf("unable to save session: %w", err)
	}
	return nil
}

func (s *DefaultStore) Load(checksum string) (Session, bool, error) {
	session := Session{Checksum: checksum}
	var updated int64
	err := s.db.QueryRow("select position, rate, volume, updated from sessions where sum = ?", checksum).
		Scan(&session.Position, &session.Rate, &session.Volume, &updated)
	if errors.Is(err, sql.ErrNoRows) {
		return session, false, nil
	}
	if nil != err {
		return session, false, fmt.Errorf("unable to load session: %w", err)
	}
	session.Updated = time.UnixMilli(updated)
	return session, true, nil
}
