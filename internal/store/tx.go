package store

import (
	"fmt"
	"slices"
	"strings"

	"github.com/yagontorron/needitv1/internal/models"
)

// Tx is the view of the state passed to View and Update callbacks. A Tx must
// not escape its callback.
type Tx struct {
	state    *state
	writable bool
	events   []Event
}

func (tx *Tx) emit(entity Entity, action Action, id string) {
	tx.events = append(tx.events, Event{Entity: entity, Action: action, ID: id})
}

func (tx *Tx) checkWritable() error {
	if !tx.writable {
		return ErrReadOnly
	}
	return nil
}

// --- users ---

func (tx *Tx) userIndex(id string) int {
	return slices.IndexFunc(tx.state.users, func(r userRecord) bool { return r.user.ID == id })
}

func (tx *Tx) FindUser(id string) (models.User, bool) {
	i := tx.userIndex(id)
	if i < 0 {
		return models.User{}, false
	}
	return tx.state.users[i].user, true
}

// FindUserByEmail matches case-insensitively, ignoring surrounding space.
func (tx *Tx) FindUserByEmail(email string) (models.User, []byte, bool) {
	email = strings.TrimSpace(email)
	for _, r := range tx.state.users {
		if strings.EqualFold(r.user.Email, email) {
			return r.user, slices.Clone(r.passwordHash), true
		}
	}
	return models.User{}, nil, false
}

func (tx *Tx) ListUsers() []models.User {
	out := make([]models.User, len(tx.state.users))
	for i, r := range tx.state.users {
		out[i] = r.user
	}
	return out
}

func (tx *Tx) CreateUser(u models.User, passwordHash []byte) (models.User, error) {
	if err := tx.checkWritable(); err != nil {
		return models.User{}, err
	}
	if u.ID == "" {
		return models.User{}, fmt.Errorf("create user: empty id: %w", ErrIntegrity)
	}
	if tx.userIndex(u.ID) >= 0 {
		return models.User{}, fmt.Errorf("create user %s: %w", u.ID, ErrExists)
	}
	if _, _, taken := tx.FindUserByEmail(u.Email); taken {
		return models.User{}, fmt.Errorf("create user: email %q: %w", u.Email, ErrExists)
	}
	tx.state.users = append(tx.state.users, userRecord{user: u, passwordHash: slices.Clone(passwordHash)})
	tx.emit(EntityUser, ActionCreate, u.ID)
	return u, nil
}

// UpdateUser applies fn to a copy of the user and stores the result. The id
// cannot be changed.
func (tx *Tx) UpdateUser(id string, fn func(u *models.User) error) (models.User, error) {
	if err := tx.checkWritable(); err != nil {
		return models.User{}, err
	}
	i := tx.userIndex(id)
	if i < 0 {
		return models.User{}, fmt.Errorf("update user %s: %w", id, ErrNotFound)
	}
	u := tx.state.users[i].user
	if err := fn(&u); err != nil {
		return models.User{}, err
	}
	u.ID = id
	tx.state.users[i].user = u
	tx.emit(EntityUser, ActionUpdate, id)
	return u, nil
}

// --- categories ---

func (tx *Tx) ListCategories() []models.Category {
	return slices.Clone(tx.state.categories)
}

func (tx *Tx) FindCategory(id string) (models.Category, bool) {
	i := slices.IndexFunc(tx.state.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return models.Category{}, false
	}
	return tx.state.categories[i], true
}

func (tx *Tx) CreateCategory(c models.Category) error {
	if err := tx.checkWritable(); err != nil {
		return err
	}
	if _, ok := tx.FindCategory(c.ID); ok {
		return fmt.Errorf("create category %s: %w", c.ID, ErrExists)
	}
	tx.state.categories = append(tx.state.categories, c)
	return nil
}

// --- needs ---

func (tx *Tx) needIndex(id string) int {
	return slices.IndexFunc(tx.state.needs, func(n models.Need) bool { return n.ID == id })
}

// ListNeeds returns all needs, most recent first.
func (tx *Tx) ListNeeds() []models.Need {
	out := make([]models.Need, len(tx.state.needs))
	for i, n := range tx.state.needs {
		out[i] = n.Clone()
	}
	return out
}

func (tx *Tx) FindNeed(id string) (models.Need, bool) {
	i := tx.needIndex(id)
	if i < 0 {
		return models.Need{}, false
	}
	return tx.state.needs[i].Clone(), true
}

// InsertNeed puts n at the head of the listing. Owner and category must exist.
func (tx *Tx) InsertNeed(n models.Need) (models.Need, error) {
	if err := tx.checkWritable(); err != nil {
		return models.Need{}, err
	}
	if n.ID == "" {
		return models.Need{}, fmt.Errorf("insert need: empty id: %w", ErrIntegrity)
	}
	if tx.needIndex(n.ID) >= 0 {
		return models.Need{}, fmt.Errorf("insert need %s: %w", n.ID, ErrExists)
	}
	if tx.userIndex(n.UserID) < 0 {
		return models.Need{}, fmt.Errorf("insert need %s: unknown owner %s: %w", n.ID, n.UserID, ErrIntegrity)
	}
	if _, ok := tx.FindCategory(n.CategoryID); !ok {
		return models.Need{}, fmt.Errorf("insert need %s: unknown category %s: %w", n.ID, n.CategoryID, ErrIntegrity)
	}
	n = n.Clone()
	tx.state.needs = slices.Insert(tx.state.needs, 0, n)
	tx.emit(EntityNeed, ActionCreate, n.ID)
	return n.Clone(), nil
}

// UpdateNeed applies fn to a copy of the need. Identity, owner and creation
// time are preserved whatever fn does.
func (tx *Tx) UpdateNeed(id string, fn func(n *models.Need) error) (models.Need, error) {
	if err := tx.checkWritable(); err != nil {
		return models.Need{}, err
	}
	i := tx.needIndex(id)
	if i < 0 {
		return models.Need{}, fmt.Errorf("update need %s: %w", id, ErrNotFound)
	}
	prev := tx.state.needs[i]
	n := prev.Clone()
	if err := fn(&n); err != nil {
		return models.Need{}, err
	}
	n.ID, n.UserID, n.CreatedAt = prev.ID, prev.UserID, prev.CreatedAt
	if _, ok := tx.FindCategory(n.CategoryID); !ok {
		return models.Need{}, fmt.Errorf("update need %s: unknown category %s: %w", id, n.CategoryID, ErrIntegrity)
	}
	tx.state.needs[i] = n
	tx.emit(EntityNeed, ActionUpdate, id)
	return n.Clone(), nil
}

// DeleteNeed removes the need and purges it from every saved set. It returns
// the ids of conversations still referencing the need.
func (tx *Tx) DeleteNeed(id string) ([]string, error) {
	if err := tx.checkWritable(); err != nil {
		return nil, err
	}
	i := tx.needIndex(id)
	if i < 0 {
		return nil, fmt.Errorf("delete need %s: %w", id, ErrNotFound)
	}
	tx.state.needs = slices.Delete(tx.state.needs, i, i+1)
	tx.emit(EntityNeed, ActionDelete, id)

	for userID, set := range tx.state.saved {
		if _, ok := set[id]; ok {
			delete(set, id)
			tx.emit(EntitySaved, ActionDelete, userID)
		}
	}

	var orphans []string
	for _, c := range tx.state.conversations {
		if c.NeedID == id {
			orphans = append(orphans, c.ID)
		}
	}
	return orphans, nil
}

// --- saved sets ---

func (tx *Tx) IsSaved(userID, needID string) bool {
	_, ok := tx.state.saved[userID][needID]
	return ok
}

// SavedNeeds returns the user's saved needs in listing order.
func (tx *Tx) SavedNeeds(userID string) []models.Need {
	set := tx.state.saved[userID]
	out := []models.Need{}
	for _, n := range tx.state.needs {
		if _, ok := set[n.ID]; ok {
			out = append(out, n.Clone())
		}
	}
	return out
}

// ToggleSaved flips membership of needID in the user's saved set and
// reports the new state.
func (tx *Tx) ToggleSaved(userID, needID string) (bool, error) {
	if err := tx.checkWritable(); err != nil {
		return false, err
	}
	if tx.needIndex(needID) < 0 {
		return false, fmt.Errorf("toggle saved %s: %w", needID, ErrNotFound)
	}
	set, ok := tx.state.saved[userID]
	if !ok {
		set = map[string]struct{}{}
		tx.state.saved[userID] = set
	}
	if _, saved := set[needID]; saved {
		delete(set, needID)
		tx.emit(EntitySaved, ActionDelete, userID)
		return false, nil
	}
	set[needID] = struct{}{}
	tx.emit(EntitySaved, ActionCreate, userID)
	return true, nil
}

// --- conversations ---

func (tx *Tx) conversationIndex(id string) int {
	return slices.IndexFunc(tx.state.conversations, func(c models.Conversation) bool { return c.ID == id })
}

func (tx *Tx) ListConversations() []models.Conversation {
	out := make([]models.Conversation, len(tx.state.conversations))
	for i, c := range tx.state.conversations {
		out[i] = c.Clone()
	}
	return out
}

func (tx *Tx) FindConversation(id string) (models.Conversation, bool) {
	i := tx.conversationIndex(id)
	if i < 0 {
		return models.Conversation{}, false
	}
	return tx.state.conversations[i].Clone(), true
}

// FindConversationBetween looks up the conversation about needID whose
// members are {a, b} in either order.
func (tx *Tx) FindConversationBetween(needID, a, b string) (models.Conversation, bool) {
	for _, c := range tx.state.conversations {
		if c.NeedID == needID && c.IsBetween(a, b) {
			return c.Clone(), true
		}
	}
	return models.Conversation{}, false
}

// FindOrCreateConversation returns the existing conversation for c's need
// and member pair, or stores c. created reports which happened.
func (tx *Tx) FindOrCreateConversation(c models.Conversation) (conv models.Conversation, created bool, err error) {
	if err := tx.checkWritable(); err != nil {
		return models.Conversation{}, false, err
	}
	if len(c.Members) != 2 || c.Members[0] == c.Members[1] {
		return models.Conversation{}, false, fmt.Errorf("conversation needs two distinct members: %w", ErrIntegrity)
	}
	if existing, ok := tx.FindConversationBetween(c.NeedID, c.Members[0], c.Members[1]); ok {
		return existing, false, nil
	}
	if c.ID == "" {
		return models.Conversation{}, false, fmt.Errorf("create conversation: empty id: %w", ErrIntegrity)
	}
	if tx.conversationIndex(c.ID) >= 0 {
		return models.Conversation{}, false, fmt.Errorf("create conversation %s: %w", c.ID, ErrExists)
	}
	if tx.needIndex(c.NeedID) < 0 {
		return models.Conversation{}, false, fmt.Errorf("create conversation %s: unknown need %s: %w", c.ID, c.NeedID, ErrIntegrity)
	}
	for _, m := range c.Members {
		if tx.userIndex(m) < 0 {
			return models.Conversation{}, false, fmt.Errorf("create conversation %s: unknown member %s: %w", c.ID, m, ErrIntegrity)
		}
	}
	c = c.Clone()
	c.LastMessage = nil
	tx.state.conversations = append(tx.state.conversations, c)
	tx.emit(EntityConversation, ActionCreate, c.ID)
	return c.Clone(), true, nil
}

// --- messages ---

// ListMessages returns every message in append order.
func (tx *Tx) ListMessages() []models.Message {
	return slices.Clone(tx.state.messages)
}

// MessagesIn returns the conversation's messages oldest first. Messages with
// equal timestamps keep their append order.
func (tx *Tx) MessagesIn(conversationID string) []models.Message {
	out := []models.Message{}
	for _, m := range tx.state.messages {
		if m.ConversationID == conversationID {
			out = append(out, m)
		}
	}
	slices.SortStableFunc(out, func(a, b models.Message) int {
		switch {
		case a.CreatedAt < b.CreatedAt:
			return -1
		case a.CreatedAt > b.CreatedAt:
			return 1
		}
		return 0
	})
	return out
}

// AppendMessage stores m and refreshes the conversation's last message when
// m is not older than it.
func (tx *Tx) AppendMessage(m models.Message) (models.Message, error) {
	if err := tx.checkWritable(); err != nil {
		return models.Message{}, err
	}
	ci := tx.conversationIndex(m.ConversationID)
	if ci < 0 {
		return models.Message{}, fmt.Errorf("append message: conversation %s: %w", m.ConversationID, ErrNotFound)
	}
	conv := &tx.state.conversations[ci]
	if !conv.HasMember(m.SenderID) {
		return models.Message{}, fmt.Errorf("append message: %s is not a member of %s: %w", m.SenderID, conv.ID, ErrIntegrity)
	}
	if m.ID == "" {
		return models.Message{}, fmt.Errorf("append message: empty id: %w", ErrIntegrity)
	}
	if slices.ContainsFunc(tx.state.messages, func(x models.Message) bool { return x.ID == m.ID }) {
		return models.Message{}, fmt.Errorf("append message %s: %w", m.ID, ErrExists)
	}

	tx.state.messages = append(tx.state.messages, m)
	if conv.LastMessage == nil || m.CreatedAt >= conv.LastMessage.CreatedAt {
		conv.LastMessage = &models.LastMessage{Text: m.Text, CreatedAt: m.CreatedAt, SenderID: m.SenderID}
	}
	tx.emit(EntityMessage, ActionCreate, m.ID)
	tx.emit(EntityConversation, ActionUpdate, conv.ID)
	return m, nil
}

// MarkRead flags every message in the conversation not sent by readerID as
// read and returns how many changed.
func (tx *Tx) MarkRead(conversationID, readerID string) (int, error) {
	if err := tx.checkWritable(); err != nil {
		return 0, err
	}
	if tx.conversationIndex(conversationID) < 0 {
		return 0, fmt.Errorf("mark read: conversation %s: %w", conversationID, ErrNotFound)
	}
	changed := 0
	for i := range tx.state.messages {
		m := &tx.state.messages[i]
		if m.ConversationID == conversationID && m.SenderID != readerID && !m.Read {
			m.Read = true
			changed++
			tx.emit(EntityMessage, ActionUpdate, m.ID)
		}
	}
	return changed, nil
}

// UnreadConversations returns the ids of the user's conversations that
// contain a message not sent by userID and not yet read.
func (tx *Tx) UnreadConversations(userID string) map[string]struct{} {
	member := map[string]bool{}
	for _, c := range tx.state.conversations {
		member[c.ID] = c.HasMember(userID)
	}
	out := map[string]struct{}{}
	for _, m := range tx.state.messages {
		if !m.Read && m.SenderID != userID && member[m.ConversationID] {
			out[m.ConversationID] = struct{}{}
		}
	}
	return out
}
