package models

import "go.mongodb.org/mongo-driver/bson/primitive"

const (
	RoleUser      = "user"
	RoleModerator = "moderator"
	RoleAdmin     = "admin"
)

type User struct {
	ID            primitive.ObjectID   `bson:"_id,omitempty" json:"_id"`
	GoogleID      string               `bson:"googleId,omitempty" json:"-"`
	Provider      string               `bson:"provider" json:"provider"` // email, google
	FirstName     string               `bson:"firstName" json:"firstName"`
	LastName      string               `bson:"lastName" json:"lastName"`
	Email         string               `bson:"email" json:"email"`
	Password      string               `bson:"password,omitempty" json:"-"`
	Phone         string               `bson:"phone,omitempty" json:"phone,omitempty"`
	DOB           string               `bson:"dob,omitempty" json:"dob,omitempty"`
	ProfileImage  string               `bson:"profileImage" json:"profileImage"`
	Role          string               `bson:"role" json:"role"`
	IsVerified    bool                 `bson:"isVerified" json:"isVerified"`
	IsDeletedUser bool                 `bson:"isDeletedUser" json:"isDeletedUser"`

	OnboardingInfo   OnboardingInfo       `bson:"onboardingInfo" json:"onboardingInfo"`
	CommunityInfo    CommunityInfo        `bson:"communityInfo" json:"communityInfo"`
	DailyGoals       DailyGoals           `bson:"dailyGoals" json:"dailyGoals"`
	SavedAffirmations []primitive.ObjectID `bson:"savedAffirmations" json:"savedAffirmations"`

	CreatedAt int64 `bson:"createdAt" json:"createdAt"`
	UpdatedAt int64 `bson:"updatedAt" json:"updatedAt"`
}

type OnboardingInfo struct {
	Onboarded bool   `bson:"onboarded" json:"onboarded"`
	Why       string `bson:"why,omitempty" json:"why,omitempty"`
	Reminder  string `bson:"reminder,omitempty" json:"reminder,omitempty"`
}

type CommunityInfo struct {
	Joined bool   `bson:"joined" json:"joined"`
	Author string `bson:"author,omitempty" json:"author,omitempty"`
	Bio    string `bson:"bio,omitempty" json:"bio,omitempty"`
}

type DailyGoals struct {
	Mindfulness int `bson:"mindfulness" json:"mindfulness"`
	Breathing   int `bson:"breathing" json:"breathing"`
	Journaling  int `bson:"journaling" json:"journaling"`
	Reading     int `bson:"reading" json:"reading"`
	Exercises   int `bson:"exercises" json:"exercises"`
}

// AuthorSummary is the slice of a user document attached to feed responses.
type AuthorSummary struct {
	ID            primitive.ObjectID `bson:"_id" json:"_id"`
	FirstName     string             `bson:"firstName" json:"firstName"`
	ProfileImage  string             `bson:"profileImage" json:"profileImage"`
	CommunityInfo CommunitySummary   `bson:"communityInfo" json:"communityInfo"`
	IsDeletedUser bool               `bson:"isDeletedUser" json:"isDeletedUser"`
}

type CommunitySummary struct {
	Joined bool   `bson:"joined" json:"joined"`
	Author string `bson:"author,omitempty" json:"author,omitempty"`
}
