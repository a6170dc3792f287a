package repositories

import (
	"testing"

	"grocery-manager/internal/database"
	"grocery-manager/internal/models"

	"github.com/stretchr/testify/suite"
)

func TestTitleRepository(t *testing.T) {
	suite.Run(t, new(TitleRepositorySuite))
}

type TitleRepositorySuite struct {
	suite.Suite
	db   *database.DB
	repo TitleRepositoryInterface
}

func (s *TitleRepositorySuite) SetupTest() {
	s.db = database.SetupTestDB(s.T())
	s.repo = NewTitleRepository(s.db.DB)
}

func (s *TitleRepositorySuite) TearDownTest() {
	database.CleanupTestDB(s.T(), s.db)
}

func (s *TitleRepositorySuite) TestCreateAndGet() {
	title := &models.Title{Category: models.CategoryProduce, Title: "Greens", UserID: "u1"}
	s.Require().NoError(s.repo.Create(title))
	s.NotEmpty(title.ID)
	s.Equal(int64(1), title.Position)

	found, err := s.repo.GetByID(title.ID)
	s.Require().NoError(err)
	s.Equal(models.CategoryProduce, found.Category)
	s.Equal("Greens", found.Title)
	s.Equal("u1", found.UserID)

	_, err = s.repo.GetByID("missing")
	s.ErrorIs(err, ErrNotFound)
}

func (s *TitleRepositorySuite) TestCreate_EmptyTitleAllowed() {
	title := &models.Title{Category: models.CategoryMeat}
	s.NoError(s.repo.Create(title))
}

func (s *TitleRepositorySuite) TestCreate_InvalidCategory() {
	s.Error(s.repo.Create(&models.Title{Category: "dairy", Title: "Milk"}))
	s.Error(s.repo.Create(nil))
}

func (s *TitleRepositorySuite) TestList_OrderAndFilters() {
	first := &models.Title{Category: models.CategoryMeat, Title: "Braai Pack", UserID: "u1"}
	second := &models.Title{Category: models.CategoryBeverages, Title: "Drinks", UserID: "u2"}
	third := &models.Title{Category: models.CategoryProduce, Title: "braai sides", UserID: "u1"}
	for _, title := range []*models.Title{first, second, third} {
		s.Require().NoError(s.repo.Create(title))
	}

	all, err := s.repo.List(ListFilter{})
	s.Require().NoError(err)
	s.Require().Len(all, 3)
	s.Equal(first.ID, all[0].ID)
	s.Equal(second.ID, all[1].ID)
	s.Equal(third.ID, all[2].ID)

	mine, err := s.repo.List(ListFilter{UserID: "u1"})
	s.Require().NoError(err)
	s.Len(mine, 2)

	braai, err := s.repo.List(ListFilter{Query: "BRAAI"})
	s.Require().NoError(err)
	s.Require().Len(braai, 2)
	s.Equal(first.ID, braai[0].ID)
	s.Equal(third.ID, braai[1].ID)
}

func (s *TitleRepositorySuite) TestUpdate() {
	title := &models.Title{Category: models.CategoryHousehold, Title: "Bathroom"}
	s.Require().NoError(s.repo.Create(title))

	title.Title = ""
	s.Require().NoError(s.repo.Update(title))

	found, err := s.repo.GetByID(title.ID)
	s.Require().NoError(err)
	s.Empty(found.Title)

	s.ErrorIs(s.repo.Update(&models.Title{ID: "missing", Category: models.CategoryMeat}), ErrNotFound)
}

func (s *TitleRepositorySuite) TestDelete() {
	title := &models.Title{Category: models.CategoryMeat, Title: "Butcher"}
	s.Require().NoError(s.repo.Create(title))

	s.Require().NoError(s.repo.Delete(title.ID))
	s.ErrorIs(s.repo.Delete(title.ID), ErrNotFound)

	titles, err := s.repo.List(ListFilter{})
	s.Require().NoError(err)
	s.Empty(titles)
}
