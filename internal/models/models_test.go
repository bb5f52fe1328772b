package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNeedStatusValid(t *testing.T) {
	assert.True(t, NeedActive.Valid())
	assert.True(t, NeedFulfilled.Valid())
	assert.True(t, NeedClosed.Valid())
	assert.False(t, NeedStatus("archived").Valid())
	assert.False(t, NeedStatus("").Valid())
}

func TestNeedCloneIsDeep(t *testing.T) {
	price := 50.0
	n := Need{
		ID:       "need1",
		Price:    &price,
		Location: &Location{Name: "Madrid, Spain"},
		Images:   []string{"a.jpg"},
	}

	c := n.Clone()
	*c.Price = 10
	c.Location.Name = "Seville, Spain"
	c.Images[0] = "b.jpg"

	assert.Equal(t, 50.0, *n.Price)
	assert.Equal(t, "Madrid, Spain", n.LocationName())
	assert.Equal(t, []string{"a.jpg"}, n.Images)
}

func TestNeedCloneNormalizesImages(t *testing.T) {
	c := Need{ID: "need1"}.Clone()
	assert.NotNil(t, c.Images)
	assert.Empty(t, c.Images)
	assert.Equal(t, "", c.LocationName())
}

func TestConversationMembers(t *testing.T) {
	c := Conversation{ID: "conv1", Members: []string{"1", "2"}, CreatedAt: 100}

	assert.True(t, c.HasMember("1"))
	assert.False(t, c.HasMember("3"))
	assert.Equal(t, "2", c.OtherMember("1"))
	assert.Equal(t, "1", c.OtherMember("2"))
	assert.True(t, c.IsBetween("1", "2"))
	assert.True(t, c.IsBetween("2", "1"))
	assert.False(t, c.IsBetween("1", "3"))
	assert.False(t, Conversation{Members: []string{"1"}}.IsBetween("1", "1"))
}

func TestConversationLastActivity(t *testing.T) {
	c := Conversation{CreatedAt: 100}
	assert.Equal(t, int64(100), c.LastActivity())

	c.LastMessage = &LastMessage{Text: "hi", CreatedAt: 250, SenderID: "1"}
	assert.Equal(t, int64(250), c.LastActivity())

	cl := c.Clone()
	cl.LastMessage.Text = "changed"
	cl.Members = append(cl.Members, "x")
	assert.Equal(t, "hi", c.LastMessage.Text)
	assert.Empty(t, c.Members)
}
