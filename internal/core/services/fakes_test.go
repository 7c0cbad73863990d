package services

import (
	"context"
	"sort"

	"smart-elib/internal/adapters/persistence/models"

	"gorm.io/gorm"
)

// In-memory repository fakes for service tests.

type fakeUserRepo struct {
	users  map[uint]*models.User
	nextID uint
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{users: map[uint]*models.User{}, nextID: 1}
}

func (f *fakeUserRepo) Create(_ context.Context, user *models.User) error {
	user.ID = f.nextID
	f.nextID++
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) GetByID(_ context.Context, id uint) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return u, nil
}

func (f *fakeUserRepo) GetByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) GetByStudentID(_ context.Context, studentID string) (*models.User, error) {
	for _, u := range f.users {
		if u.StudentID == studentID {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeUserRepo) Update(_ context.Context, user *models.User) error {
	f.users[user.ID] = user
	return nil
}

func (f *fakeUserRepo) Delete(_ context.Context, id uint) error {
	delete(f.users, id)
	return nil
}

func (f *fakeUserRepo) List(_ context.Context, offset, limit int) ([]*models.User, int64, error) {
	all := make([]*models.User, 0, len(f.users))
	for _, u := range f.users {
		all = append(all, u)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })

	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeUserRepo) ExistsByEmail(_ context.Context, email string) (bool, error) {
	_, err := f.GetByEmail(context.Background(), email)
	return err == nil, nil
}

func (f *fakeUserRepo) ExistsByStudentID(_ context.Context, studentID string) (bool, error) {
	_, err := f.GetByStudentID(context.Background(), studentID)
	return err == nil, nil
}

type fakeBookRepo struct {
	books  map[uint]*models.Book
	nextID uint
}

func newFakeBookRepo() *fakeBookRepo {
	return &fakeBookRepo{books: map[uint]*models.Book{}, nextID: 1}
}

func (f *fakeBookRepo) Create(_ context.Context, book *models.Book) error {
	book.ID = f.nextID
	f.nextID++
	f.books[book.ID] = book
	return nil
}

func (f *fakeBookRepo) GetByID(_ context.Context, id uint) (*models.Book, error) {
	b, ok := f.books[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return b, nil
}

func (f *fakeBookRepo) GetByCode(_ context.Context, code string) (*models.Book, error) {
	for _, b := range f.books {
		if b.BookCode == code {
			return b, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeBookRepo) Update(_ context.Context, book *models.Book) error {
	f.books[book.ID] = book
	return nil
}

func (f *fakeBookRepo) SetAvailability(_ context.Context, id uint, available bool) error {
	b, ok := f.books[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	b.IsAvailable = available
	return nil
}

func (f *fakeBookRepo) Delete(_ context.Context, id uint) error {
	delete(f.books, id)
	return nil
}

func (f *fakeBookRepo) List(_ context.Context) ([]*models.Book, error) {
	all := make([]*models.Book, 0, len(f.books))
	for _, b := range f.books {
		all = append(all, b)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].ID < all[j].ID })
	return all, nil
}

func (f *fakeBookRepo) ListByCategory(_ context.Context, category string) ([]*models.Book, error) {
	var out []*models.Book
	for _, b := range f.books {
		if b.Category == category {
			out = append(out, b)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (f *fakeBookRepo) ExistsByCode(_ context.Context, code string) (bool, error) {
	_, err := f.GetByCode(context.Background(), code)
	return err == nil, nil
}

type fakeLoanRepo struct {
	loans  map[string]*models.LoanTransaction
	nextID uint
}

func newFakeLoanRepo() *fakeLoanRepo {
	return &fakeLoanRepo{loans: map[string]*models.LoanTransaction{}, nextID: 1}
}

func (f *fakeLoanRepo) Create(_ context.Context, loan *models.LoanTransaction) error {
	loan.ID = f.nextID
	f.nextID++
	f.loans[loan.TransactionID] = loan
	return nil
}

func (f *fakeLoanRepo) GetByTransactionID(_ context.Context, transactionID string) (*models.LoanTransaction, error) {
	l, ok := f.loans[transactionID]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return l, nil
}

func (f *fakeLoanRepo) Update(_ context.Context, loan *models.LoanTransaction) error {
	f.loans[loan.TransactionID] = loan
	return nil
}

func (f *fakeLoanRepo) all() []*models.LoanTransaction {
	out := make([]*models.LoanTransaction, 0, len(f.loans))
	for _, l := range f.loans {
		out = append(out, l)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (f *fakeLoanRepo) ListByUser(_ context.Context, userID uint) ([]*models.LoanTransaction, error) {
	var out []*models.LoanTransaction
	for _, l := range f.all() {
		if l.UserID == userID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) ListOpen(_ context.Context) ([]*models.LoanTransaction, error) {
	var out []*models.LoanTransaction
	for _, l := range f.all() {
		if !l.Returned {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) ListOpenByBook(_ context.Context, bookID uint) ([]*models.LoanTransaction, error) {
	var out []*models.LoanTransaction
	for _, l := range f.all() {
		if l.BookID == bookID && !l.Returned {
			out = append(out, l)
		}
	}
	return out, nil
}

func (f *fakeLoanRepo) ListAll(_ context.Context) ([]*models.LoanTransaction, error) {
	return f.all(), nil
}

func (f *fakeLoanRepo) List(_ context.Context, offset, limit int) ([]*models.LoanTransaction, int64, error) {
	all := f.all()
	total := int64(len(all))
	if offset >= len(all) {
		return nil, total, nil
	}
	end := offset + limit
	if end > len(all) {
		end = len(all)
	}
	return all[offset:end], total, nil
}

func (f *fakeLoanRepo) CountByUser(_ context.Context, userID uint) (int64, int64, error) {
	var total, open int64
	for _, l := range f.loans {
		if l.UserID != userID {
			continue
		}
		total++
		if !l.Returned {
			open++
		}
	}
	return total, open, nil
}
