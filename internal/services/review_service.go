package services

import (
	"context"
	"slices"

	"wickandwax/internal/apiclient"
	"wickandwax/internal/domain"
	"wickandwax/internal/events"
	"wickandwax/internal/session"
	"wickandwax/internal/validate"
)

type ReviewService struct {
	API   *apiclient.Client
	Bus   *events.Bus
	Guard Guard
}

func NewReviewService(api *apiclient.Client, bus *events.Bus, guard Guard) *ReviewService {
	return &ReviewService{API: api, Bus: bus, Guard: guard}
}

type ReviewForm struct {
	OrderID    string
	ProductID  string
	ColorID    string
	Rating     string
	Text       string
	Submission string
}

// Reviewable is a delivered order line with its review state.
type Reviewable struct {
	Order    domain.Order
	Item     domain.OrderItem
	Reviewed bool
	ReviewID string
}

func (s *ReviewService) Mine(ctx context.Context, a session.Auth) ([]domain.Review, error) {
	if !a.SignedIn() {
		return nil, ErrNotSignedIn
	}
	return s.API.UserReviews(ctx, a.Token, a.UserID)
}

// Reviewable lists every line of the shopper's delivered orders and whether
// it has been reviewed yet.
func (s *ReviewService) Reviewable(ctx context.Context, a session.Auth) ([]Reviewable, error) {
	if !a.SignedIn() {
		return nil, ErrNotSignedIn
	}
	orders, err := s.API.UserOrders(ctx, a.Token, a.UserID)
	if err != nil {
		return nil, err
	}
	var out []Reviewable
	var keys []domain.ReviewKey
	for _, o := range orders {
		if o.OrderStatus != domain.OrderDelivered {
			continue
		}
		for _, it := range o.Items {
			out = append(out, Reviewable{Order: o, Item: it})
			keys = append(keys, domain.ReviewKey{OrderID: o.ID, ProductID: it.ProductID, ColorID: it.Selected.ColorID})
		}
	}
	if len(keys) == 0 {
		return out, nil
	}
	checks, err := s.API.CheckReviews(ctx, a.Token, keys)
	if err != nil {
		return nil, err
	}
	for i := range out {
		for _, c := range checks {
			if c.ReviewKey == keys[i] {
				out[i].Reviewed, out[i].ReviewID = c.Reviewed, c.ReviewID
			}
		}
	}
	return out, nil
}

// Submit posts one review per (order, product, color). The line must belong
// to a delivered order of the shopper.
func (s *ReviewService) Submit(ctx context.Context, a session.Auth, f ReviewForm) (domain.Review, error) {
	if !a.SignedIn() {
		return domain.Review{}, ErrNotSignedIn
	}
	rating, ok := validate.Rating(f.Rating)
	if !ok {
		return domain.Review{}, invalid("rating", "Please choose a rating from 1 to 5")
	}
	text, ok := validate.ReviewText(f.Text)
	if !ok {
		return domain.Review{}, invalid("reviewText", "Review must be between 1 and 1000 characters")
	}

	items, err := s.Reviewable(ctx, a)
	if err != nil {
		return domain.Review{}, err
	}
	idx := slices.IndexFunc(items, func(r Reviewable) bool {
		return r.Order.ID == f.OrderID && r.Item.ProductID == f.ProductID && r.Item.Selected.ColorID == f.ColorID
	})
	if idx < 0 {
		return domain.Review{}, invalid("orderId", "Only delivered items can be reviewed")
	}
	line := items[idx]
	if line.Reviewed {
		return domain.Review{}, invalid("orderId", "You have already reviewed this item")
	}

	sel := line.Item.Selected
	rv, err := once(ctx, s.Guard, f.Submission, "review.submit", func() (domain.Review, error) {
		return s.API.SubmitReview(ctx, a.Token, apiclient.ReviewInput{
			OrderID: f.OrderID, ProductID: f.ProductID, ColorID: f.ColorID,
			ModelID: sel.ModelID, ModelName: sel.ModelName, Fragrance: sel.Fragrance, Size: sel.Size,
			Rating: rating, ReviewText: text,
		})
	})
	if err != nil {
		return domain.Review{}, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.ReviewsUpdated, UserID: a.UserID, ProductID: f.ProductID})
	return rv, nil
}

func (s *ReviewService) own(ctx context.Context, a session.Auth, reviewID string) (domain.Review, error) {
	mine, err := s.Mine(ctx, a)
	if err != nil {
		return domain.Review{}, err
	}
	for _, r := range mine {
		if r.ID == reviewID {
			return r, nil
		}
	}
	return domain.Review{}, ErrNotAllowed
}

func (s *ReviewService) Update(ctx context.Context, a session.Auth, reviewID, ratingRaw, textRaw string) (domain.Review, error) {
	if !a.SignedIn() {
		return domain.Review{}, ErrNotSignedIn
	}
	rating, ok := validate.Rating(ratingRaw)
	if !ok {
		return domain.Review{}, invalid("rating", "Please choose a rating from 1 to 5")
	}
	text, ok := validate.ReviewText(textRaw)
	if !ok {
		return domain.Review{}, invalid("reviewText", "Review must be between 1 and 1000 characters")
	}
	existing, err := s.own(ctx, a, reviewID)
	if err != nil {
		return domain.Review{}, err
	}
	rv, err := s.API.UpdateReview(ctx, a.Token, reviewID, rating, text)
	if err != nil {
		return domain.Review{}, err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.ReviewsUpdated, UserID: a.UserID, ProductID: existing.ProductID})
	return rv, nil
}

func (s *ReviewService) Delete(ctx context.Context, a session.Auth, reviewID string) error {
	if !a.SignedIn() {
		return ErrNotSignedIn
	}
	existing, err := s.own(ctx, a, reviewID)
	if err != nil {
		return err
	}
	if err := s.API.DeleteReview(ctx, a.Token, reviewID); err != nil {
		return err
	}
	s.Bus.Publish(ctx, events.Event{Topic: events.ReviewsUpdated, UserID: a.UserID, ProductID: existing.ProductID})
	return nil
}
