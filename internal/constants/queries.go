package constants

// Compatibility table access through sqlx. Placeholders are written as ?
// and rebound per driver.
const (
	SelectCompatiblePairs = `
	SELECT id, top_colour_id, bottom_colour_id
	FROM compatible_pairs
	ORDER BY id
	`

	DeleteCompatiblePairs = `
	DELETE FROM compatible_pairs
	`

	InsertCompatiblePair = `
	INSERT INTO compatible_pairs (top_colour_id, bottom_colour_id, created_at)
	VALUES (?, ?, ?)
	`
)
