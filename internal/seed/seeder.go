package seed

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/localfeat/backend/internal/logger"
	"github.com/localfeat/backend/internal/metrics"
	"github.com/localfeat/backend/internal/models"
	"github.com/localfeat/backend/internal/repository"
	"github.com/localfeat/backend/internal/util"
	"go.uber.org/zap"
)

const (
	// BotIDPrefix marks seeded accounts and their posts
	BotIDPrefix = "bot_"

	DefaultBotCount  = 5000
	DefaultBatchSize = 50

	botPasswordHash = "bot_account_hash"
	coordinateSpread = 0.005
	maxPostAge       = 7 * 24 * time.Hour
)

// Location is a named neighborhood bots are placed in
type Location struct {
	Name string
	Lat  float64
	Lng  float64
}

// Locations are the Delhi/NCR neighborhoods used for bot accounts
var Locations = []Location{
	{Name: "Pocket 42, Rohini", Lat: 28.72335, Lng: 77.13432},
	{Name: "Sector 15 Pkt 4, Rohini", Lat: 28.72921, Lng: 77.13254},
	{Name: "Sector 9, Rohini", Lat: 28.71720, Lng: 77.12620},
	{Name: "Sector 18G, Rohini", Lat: 28.74020, Lng: 77.13464},
	{Name: "Sector 19, Dwarka", Lat: 28.57667, Lng: 77.05248},
	{Name: "Sector 3, Dwarka", Lat: 28.56700, Lng: 77.09760},
	{Name: "Sector 100, Noida", Lat: 28.54535, Lng: 77.37168},
	{Name: "DLF Ridgewood, Gurugram", Lat: 28.46504, Lng: 77.08108},
	{Name: "Model Town", Lat: 28.71800, Lng: 77.19160},
	{Name: "Model Town III", Lat: 28.71066, Lng: 77.19680},
	{Name: "Mayur Vihar Phase 1", Lat: 28.60260, Lng: 77.29300},
	{Name: "Mayur Vihar (gen.)", Lat: 28.61560, Lng: 77.31330},
	{Name: "Mayur Vihar Phase 3", Lat: 28.61152, Lng: 77.33629},
	{Name: "Naraina Vihar", Lat: 28.62899, Lng: 77.14133},
	{Name: "Sarita Vihar", Lat: 28.53389, Lng: 77.28994},
}

var firstNames = []string{
	"Aarav", "Arjun", "Aditya", "Vihaan", "Vivaan", "Krishna", "Aryan", "Ishaan", "Shaurya", "Atharv",
	"Reyansh", "Ayaan", "Kabir", "Yuvaan", "Shivansh", "Dhruv", "Rudra", "Advait", "Samarth",
	"Ravi", "Vikram", "Rohit", "Amit", "Suresh", "Rajesh", "Deepak", "Manoj", "Sanjay", "Praveen",
	"Aadhya", "Ananya", "Diya", "Saanvi", "Anvi", "Kavya", "Aanya", "Kiara", "Myra", "Vanya",
	"Sara", "Ira", "Pari", "Avni", "Riya", "Navya", "Shanvi", "Prisha", "Aditi", "Ishika",
	"Priya", "Neha", "Pooja", "Anjali", "Kavita", "Sunita", "Rekha", "Seema", "Geeta", "Meera",
}

var lastNames = []string{
	"Sharma", "Verma", "Singh", "Kumar", "Gupta", "Agarwal", "Jain", "Bansal", "Goyal", "Mittal",
	"Chopra", "Kapoor", "Malhotra", "Arora", "Bhatia", "Khanna", "Sethi", "Tiwari", "Sinha", "Yadav",
	"Patel", "Shah", "Mehta", "Desai", "Modi", "Joshi", "Trivedi", "Pandya", "Shukla", "Vyas",
	"Reddy", "Rao", "Nair", "Pillai", "Menon", "Iyer", "Chandra", "Prasad", "Das", "Ghosh",
}

var postTemplates = []string{
	"Looking for a gym partner to start morning workouts! #gym #workout #fitness #partner",
	"Anyone up for an evening walk in the park? #walk #evening #health #nature",
	"Need a study buddy for competitive exams #study #exams #motivation #education",
	"Looking for someone to practice badminton with #badminton #sports #games #partner",
	"Anyone interested in learning cooking together? #cooking #food #learn #hobby",
	"Want to start a book club in our area #books #reading #bookclub #literature",
	"Looking for a running partner for morning jogs #running #jogging #fitness #morning",
	"Need recommendations for good street food nearby #food #streetfood #recommendations #local",
	"Anyone know a good yoga instructor in the area? #yoga #instructor #health #wellness",
	"Looking for carpool partners to office commute #carpool #commute #office #transport",
	"Want to organize weekend cricket matches #cricket #weekend #sports #team",
	"Anyone interested in learning guitar together? #guitar #music #learn #hobby",
	"Need babysitting help, can exchange favors #babysitting #help #kids #support",
	"Looking for photography enthusiasts for weekend shoots #photography #weekend #hobby #creative",
	"Anyone up for weekend treks nearby Delhi? #trekking #weekend #adventure #nature",
	"Want to start a chess club in the neighborhood #chess #games #club #strategy",
}

// Stats counts rows written by CreateBots
type Stats struct {
	Users    int
	Profiles int
	Posts    int
}

// Status reports how many bot accounts and posts exist
type Status struct {
	BotUsers int64 `json:"botUsers"`
	BotPosts int64 `json:"botPosts"`
	Ready    bool  `json:"ready"`
}

// Seeder bulk-creates bot users with profiles and posts
type Seeder struct {
	users    repository.UserRepository
	profiles repository.ProfileRepository
	posts    repository.PostRepository
	faker    *gofakeit.Faker
	now      func() time.Time
}

// NewSeeder creates a seeder; seed 0 picks a time-based seed
func NewSeeder(users repository.UserRepository, profiles repository.ProfileRepository, posts repository.PostRepository, seed uint64) *Seeder {
	if seed == 0 {
		seed = uint64(time.Now().UnixNano())
	}
	return &Seeder{
		users:    users,
		profiles: profiles,
		posts:    posts,
		faker:    gofakeit.New(seed),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

// CreateBots inserts count bots in batches of batchSize, each with a profile and 1-3 posts.
// Progress lines are written to w as each batch commits.
func (s *Seeder) CreateBots(ctx context.Context, count, batchSize int, w io.Writer) (*Stats, error) {
	if count <= 0 {
		count = DefaultBotCount
	}
	if batchSize <= 0 {
		batchSize = DefaultBatchSize
	}
	if w == nil {
		w = io.Discard
	}

	totalBatches := (count + batchSize - 1) / batchSize
	stats := &Stats{}
	fmt.Fprintf(w, "Starting bot creation: %d bots in %d batches\n\n", count, totalBatches)

	for batch := 0; batch < totalBatches; batch++ {
		if err := ctx.Err(); err != nil {
			return stats, err
		}

		size := batchSize
		if remaining := count - batch*batchSize; remaining < size {
			size = remaining
		}
		fmt.Fprintf(w, "Batch %d/%d: Creating %d bots...\n", batch+1, totalBatches, size)

		users, profiles, posts := s.buildBatch(size)
		if err := s.users.CreateUsers(ctx, users); err != nil {
			return stats, fmt.Errorf("batch %d users: %w", batch+1, err)
		}
		if err := s.profiles.CreateBatch(ctx, profiles); err != nil {
			return stats, fmt.Errorf("batch %d profiles: %w", batch+1, err)
		}
		if err := s.posts.CreateBatch(ctx, posts); err != nil {
			return stats, fmt.Errorf("batch %d posts: %w", batch+1, err)
		}

		stats.Users += len(users)
		stats.Profiles += len(profiles)
		stats.Posts += len(posts)
		metrics.Get().App.PostsCreated.WithLabelValues("seed").Add(float64(len(posts)))

		fmt.Fprintf(w, "Batch %d complete: %d users, %d posts\n", batch+1, len(users), len(posts))
		fmt.Fprintf(w, "Progress: %.1f%%\n\n", float64(batch+1)/float64(totalBatches)*100)
	}

	fmt.Fprintf(w, "SUCCESS! Created:\n")
	fmt.Fprintf(w, "Users: %d\n", stats.Users)
	fmt.Fprintf(w, "Posts: %d\n", stats.Posts)
	fmt.Fprintf(w, "Locations: %d areas\n", len(Locations))

	logger.Log.Info("Bot creation finished",
		zap.Int("users", stats.Users),
		zap.Int("profiles", stats.Profiles),
		zap.Int("posts", stats.Posts),
	)
	return stats, nil
}

func (s *Seeder) buildBatch(size int) ([]*models.User, []*models.UserProfile, []*models.Post) {
	now := s.now()
	users := make([]*models.User, 0, size)
	profiles := make([]*models.UserProfile, 0, size)
	var posts []*models.Post

	for i := 0; i < size; i++ {
		f := s.faker
		firstName := f.RandomString(firstNames)
		lastName := f.RandomString(lastNames)
		displayName := firstName + " " + lastName
		location := Locations[f.Number(0, len(Locations)-1)]
		userID := fmt.Sprintf("%s%d_%s", BotIDPrefix, now.UnixMilli(), strings.ToLower(f.LetterN(12)))
		suffix := f.Number(0, 999999)

		phone := fmt.Sprintf("+91%d", f.Number(1000000000, 9999999999))
		hash := botPasswordHash
		first, last := firstName, lastName
		users = append(users, &models.User{
			ID:           userID,
			Username:     fmt.Sprintf("%s%s%d", strings.ToLower(firstName), strings.ToLower(lastName), suffix),
			Email:        fmt.Sprintf("%s.%s.%d@localfeat.bot", strings.ToLower(firstName), strings.ToLower(lastName), suffix),
			Phone:        &phone,
			PasswordHash: &hash,
			FirstName:    &first,
			LastName:     &last,
		})

		name := displayName
		bio := "Local resident of " + location.Name
		avatar := "https://ui-avatars.com/api/?name=" + url.QueryEscape(displayName) + "&background=random&size=128"
		profiles = append(profiles, &models.UserProfile{
			UserID:          userID,
			DisplayName:     &name,
			Bio:             &bio,
			ProfileImageURL: &avatar,
		})

		postCount := f.Number(1, 3)
		for j := 0; j < postCount; j++ {
			content := f.RandomString(postTemplates)
			locationName := location.Name
			posts = append(posts, &models.Post{
				Content:        content,
				AuthorID:       userID,
				AuthorName:     displayName,
				AuthorInitials: util.Initials(displayName),
				Latitude:       location.Lat + f.Float64Range(-coordinateSpread/2, coordinateSpread/2),
				Longitude:      location.Lng + f.Float64Range(-coordinateSpread/2, coordinateSpread/2),
				LocationName:   &locationName,
				Hashtags:       models.StringList(util.ExtractHashtags(content)),
				Likes:          f.Number(0, 14),
				CreatedAt:      f.DateRange(now.Add(-maxPostAge), now).UTC(),
			})
		}
	}
	return users, profiles, posts
}

// Status counts bot users and posts by their id prefix
func (s *Seeder) Status(ctx context.Context) (*Status, error) {
	botUsers, err := s.users.CountByIDPrefix(ctx, BotIDPrefix)
	if err != nil {
		return nil, fmt.Errorf("count bot users: %w", err)
	}
	botPosts, err := s.posts.CountByAuthorPrefix(ctx, BotIDPrefix)
	if err != nil {
		return nil, fmt.Errorf("count bot posts: %w", err)
	}
	return &Status{BotUsers: botUsers, BotPosts: botPosts, Ready: botUsers > 0}, nil
}
