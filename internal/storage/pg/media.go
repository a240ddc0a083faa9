package pg

import (
	"database/sql"

	"github.com/netslap-dev/netslap/shared/domain"
)

// mediaArgs flattens an optional attachment into the five nullable media_*
// column values, in schema order.
func mediaArgs(m *domain.Media) []interface{} {
	if m == nil {
		return []interface{}{nil, nil, nil, nil, nil}
	}
	return []interface{}{m.Name, m.Location, m.MimeType, m.Size, m.Thumbnail}
}

// mediaScan receives the five nullable media_* columns and rebuilds the
// attachment, or nil when none was stored.
type mediaScan struct {
	name      sql.NullString
	location  sql.NullString
	mimetype  sql.NullString
	size      sql.NullInt64
	thumbnail sql.NullString
}

func (m *mediaScan) dest() []interface{} {
	return []interface{}{&m.name, &m.location, &m.mimetype, &m.size, &m.thumbnail}
}

func (m *mediaScan) media() *domain.Media {
	if !m.name.Valid {
		return nil
	}
	return &domain.Media{
		Name:      m.name.String,
		Location:  m.location.String,
		MimeType:  m.mimetype.String,
		Size:      m.size.Int64,
		Thumbnail: m.thumbnail.String,
	}
}
