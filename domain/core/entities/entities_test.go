package entities

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNode_JSON(t *testing.T) {
	var n Node
	require.NoError(t, json.Unmarshal([]byte(`{"id":"vova","type":"character","label":"Vova","tags":["a","b"]}`), &n))

	assert.Equal(t, "vova", n.ID)
	assert.Equal(t, "character", n.Type)
	assert.Equal(t, "Vova", n.Label())
	assert.NotContains(t, n.Fields, KeyID)
	assert.NotContains(t, n.Fields, KeyType)

	data, err := json.Marshal(n)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"vova","type":"character","label":"Vova","tags":["a","b"]}`, string(data))
}

func TestNode_UnmarshalErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"numeric id", `{"id": 7, "type": "hub"}`},
		{"object type", `{"id": "x", "type": {}}`},
		{"not an object", `[1, 2]`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var n Node
			assert.Error(t, json.Unmarshal([]byte(tt.data), &n))
		})
	}
}

func TestNode_LabelFallsBackToID(t *testing.T) {
	assert.Equal(t, "root", NewNode("root", "root", nil).Label())
	assert.Equal(t, "root", NewNode("root", "root", map[string]interface{}{"label": 3}).Label())
}

func TestEdge_JSON(t *testing.T) {
	var e Edge
	require.NoError(t, json.Unmarshal([]byte(`{"id":"e1","source":"vova","target":"petrova","type":"relates","weight":2}`), &e))

	assert.Equal(t, "vova", e.Source)
	assert.Equal(t, "petrova", e.Other("vova"))
	assert.True(t, e.Touches("petrova"))
	assert.False(t, e.IsSelfLoop())
	assert.Equal(t, map[string]interface{}{"weight": 2.0}, e.Fields)

	data, err := json.Marshal(e)
	require.NoError(t, err)
	assert.JSONEq(t, `{"id":"e1","source":"vova","target":"petrova","type":"relates","weight":2}`, string(data))
}

func TestClone_IsDeep(t *testing.T) {
	n := NewNode("vova", "character", map[string]interface{}{
		"meta": map[string]interface{}{"tags": []interface{}{"a"}},
	})
	c := n.Clone()

	c.Fields["meta"].(map[string]interface{})["tags"].([]interface{})[0] = "changed"
	c.Fields["extra"] = true

	assert.Equal(t, "a", n.Fields["meta"].(map[string]interface{})["tags"].([]interface{})[0])
	assert.NotContains(t, n.Fields, "extra")

	fields := map[string]interface{}{"label": "Vova"}
	n = NewNode("vova", "character", fields)
	fields["label"] = "mutated"
	assert.Equal(t, "Vova", n.Label())

	assert.Nil(t, CloneFields(nil))
}

func TestCloneValue_NormalizesToJSONShapes(t *testing.T) {
	type point struct {
		X int `json:"x"`
	}
	tests := []struct {
		name string
		in   interface{}
		want interface{}
	}{
		{"int", 3, 3.0},
		{"typed slice", []int{1, 2}, []interface{}{1.0, 2.0}},
		{"string slice", []string{"a"}, []interface{}{"a"}},
		{"typed map", map[string]int{"a": 1}, map[string]interface{}{"a": 1.0}},
		{"pointer", &point{X: 4}, map[string]interface{}{"x": 4.0}},
		{"nested", map[string]interface{}{"s": []float64{0.5}}, map[string]interface{}{"s": []interface{}{0.5}}},
		{"nil", nil, nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CloneValue(tt.in))
		})
	}

	assert.IsType(t, "", CloneValue(make(chan int)))
}

func TestNewNode_DetachesCallerValues(t *testing.T) {
	scores := []int{1, 2, 3}
	n := NewNode("d1", "domain", map[string]interface{}{"scores": scores})
	scores[0] = 999
	assert.Equal(t, []interface{}{1.0, 2.0, 3.0}, n.Fields["scores"])
}
