package engine

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBoardJSON_Gomoku(t *testing.T) {
	b := NewBoardState(5, Gomoku)
	b.Set(0, 0, Black)
	b.Set(4, 4, White)

	raw, err := json.Marshal(b)
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.EqualValues(t, 5, m["size"])
	assert.Equal(t, "GOMOKU", m["game_family"])
	assert.NotContains(t, m, "ko_position")
	assert.NotContains(t, m, "consecutive_passes")
	rows := m["board"].([]any)
	assert.Equal(t, "black", rows[0].([]any)[0])
	assert.Nil(t, rows[0].([]any)[1])
	assert.Equal(t, "white", rows[4].([]any)[4])

	var back BoardState
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, b.Equal(&back))
}

func TestBoardJSON_Go(t *testing.T) {
	b := NewBoardState(9, Go)
	b.Set(4, 4, Black)
	b.ConsecutivePasses = 1

	raw, err := json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ko_position":null`)
	assert.Contains(t, string(raw), `"consecutive_passes":1`)
	assert.Contains(t, string(raw), `"captured_stones":{`)

	b.KoPosition = &Point{Row: 2, Col: 3}
	raw, err = json.Marshal(b)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"ko_position":[2,3]`)

	var back BoardState
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.True(t, b.Equal(&back))
	assert.Equal(t, Go, back.Family())
}

func TestBoardJSON_Malformed(t *testing.T) {
	var b BoardState
	assert.Error(t, json.Unmarshal([]byte(`{"size":2,"board":[[null,null]]}`), &b))
	assert.Error(t, json.Unmarshal([]byte(`{"size":1,"board":[[null,null]]}`), &b))
	assert.Error(t, json.Unmarshal([]byte(`{"size":1,"board":[["red"]]}`), &b))
}

func TestGameJSON_StatusAndColorsAsText(t *testing.T) {
	g := activeGame(t, preset(t, "standard"))
	play(t, g, 7, 7)

	raw, err := json.Marshal(g)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"status":"ACTIVE"`)
	assert.Contains(t, string(raw), `"current_player":"white"`)

	var back Game
	require.NoError(t, json.Unmarshal(raw, &back))
	assert.Equal(t, Active, back.Status)
	assert.Equal(t, White, back.CurrentPlayer)
	assert.True(t, g.Board.Equal(back.Board))
	assert.Equal(t, "standard", back.RuleSet.Name)
}
