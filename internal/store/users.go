package store

import "github.com/yagontorron/needitv1/internal/models"

// UserDirectory exposes the store's user collection as a standalone
// repository, one transaction per call.
type UserDirectory struct {
	s *Store
}

func (s *Store) Users() UserDirectory {
	return UserDirectory{s: s}
}

func (d UserDirectory) FindUser(id string) (u models.User, ok bool) {
	_ = d.s.View(func(tx *Tx) error {
		u, ok = tx.FindUser(id)
		return nil
	})
	return u, ok
}

func (d UserDirectory) FindUserByEmail(email string) (u models.User, hash []byte, ok bool) {
	_ = d.s.View(func(tx *Tx) error {
		u, hash, ok = tx.FindUserByEmail(email)
		return nil
	})
	return u, hash, ok
}

func (d UserDirectory) CreateUser(u models.User, passwordHash []byte) (created models.User, err error) {
	err = d.s.Update(func(tx *Tx) error {
		created, err = tx.CreateUser(u, passwordHash)
		return err
	})
	return created, err
}

func (d UserDirectory) UpdateUser(id string, fn func(u *models.User) error) (updated models.User, err error) {
	err = d.s.Update(func(tx *Tx) error {
		updated, err = tx.UpdateUser(id, fn)
		return err
	})
	return updated, err
}
