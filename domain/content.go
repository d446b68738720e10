package domain

import (
	"regexp"
	"strings"
	"time"
)

// PortfolioItem is a showcased piece of agency work
type PortfolioItem struct {
	ID           uint       `json:"id" gorm:"primaryKey"`
	Title        string     `json:"title" gorm:"size:200;not null"`
	Slug         string     `json:"slug" gorm:"uniqueIndex;size:220"`
	Description  string     `json:"description" gorm:"type:text"`
	Category     string     `json:"category" gorm:"index;size:64"`
	ImageURL     string     `json:"imageUrl" gorm:"size:512"`
	VideoURL     string     `json:"videoUrl,omitempty" gorm:"size:512"`
	ThumbnailURL string     `json:"thumbnailUrl,omitempty" gorm:"size:512"`
	Featured     bool       `json:"featured" gorm:"index"`
	Tags         []string   `json:"tags" gorm:"serializer:json"`
	Views        int        `json:"views"`
	AuthorID     uint       `json:"authorId" gorm:"index"`
	PublishedAt  *time.Time `json:"publishedAt,omitempty" gorm:"index"`
	CreatedAt    time.Time  `json:"createdAt"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// BlogPost is an article on the public blog
type BlogPost struct {
	ID          uint       `json:"id" gorm:"primaryKey"`
	Title       string     `json:"title" gorm:"size:200;not null"`
	Slug        string     `json:"slug" gorm:"uniqueIndex;size:220"`
	Excerpt     string     `json:"excerpt" gorm:"size:500"`
	Content     string     `json:"content" gorm:"type:text"`
	CoverImage  string     `json:"coverImage,omitempty" gorm:"size:512"`
	AuthorID    uint       `json:"authorId" gorm:"index"`
	Published   bool       `json:"published" gorm:"index"`
	PublishedAt *time.Time `json:"publishedAt,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

// BookingStatus tracks a booking through its lifecycle
type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingCompleted BookingStatus = "COMPLETED"
	BookingCancelled BookingStatus = "CANCELLED"
)

// Valid reports whether s is a known booking status
func (s BookingStatus) Valid() bool {
	switch s {
	case BookingPending, BookingConfirmed, BookingCompleted, BookingCancelled:
		return true
	}
	return false
}

// Booking is a client request to book a shoot or production
type Booking struct {
	ID          uint          `json:"id" gorm:"primaryKey"`
	ClientName  string        `json:"clientName" gorm:"size:120;not null"`
	ClientEmail string        `json:"clientEmail" gorm:"size:255;not null"`
	ClientPhone string        `json:"clientPhone,omitempty" gorm:"size:32"`
	Service     string        `json:"service" gorm:"size:120"`
	EventType   string        `json:"eventType" gorm:"size:120"`
	EventDate   *time.Time    `json:"eventDate,omitempty"`
	Budget      *float64      `json:"budget,omitempty"`
	Notes       string        `json:"notes,omitempty" gorm:"type:text"`
	Status      BookingStatus `json:"status" gorm:"index;size:16"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time     `json:"updatedAt"`
}

// InquiryStatus tracks whether a contact message was handled
type InquiryStatus string

const (
	InquiryNew      InquiryStatus = "NEW"
	InquiryRead     InquiryStatus = "READ"
	InquiryResolved InquiryStatus = "RESOLVED"
)

// Valid reports whether s is a known inquiry status
func (s InquiryStatus) Valid() bool {
	switch s {
	case InquiryNew, InquiryRead, InquiryResolved:
		return true
	}
	return false
}

// Inquiry is a message submitted through the contact form
type Inquiry struct {
	ID        uint          `json:"id" gorm:"primaryKey"`
	Name      string        `json:"name" gorm:"size:120;not null"`
	Email     string        `json:"email" gorm:"size:255;not null"`
	Subject   string        `json:"subject" gorm:"size:200"`
	Message   string        `json:"message" gorm:"type:text"`
	Status    InquiryStatus `json:"status" gorm:"index;size:16"`
	CreatedAt time.Time     `json:"createdAt" gorm:"index"`
	UpdatedAt time.Time     `json:"updatedAt"`
}

// DashboardStats summarizes the admin dashboard counters
type DashboardStats struct {
	TotalBookings   int64   `json:"totalBookings"`
	PendingBookings int64   `json:"pendingBookings"`
	PortfolioItems  int64   `json:"portfolioItems"`
	BlogPosts       int64   `json:"blogPosts"`
	Inquiries       int64   `json:"inquiries"`
	TotalUsers      int64   `json:"totalUsers"`
	Revenue         float64 `json:"revenue"`
}

var slugInvalid = regexp.MustCompile(`[^a-z0-9]+`)

// Slugify derives a URL slug from a title
func Slugify(title string) string {
	s := slugInvalid.ReplaceAllString(strings.ToLower(title), "-")
	return strings.Trim(s, "-")
}

// PortfolioInput carries the editable fields of a portfolio item. Nil
// pointers leave the current value untouched on update.
type PortfolioInput struct {
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Category     string   `json:"category"`
	ImageURL     string   `json:"imageUrl"`
	VideoURL     string   `json:"videoUrl"`
	ThumbnailURL string   `json:"thumbnailUrl"`
	Tags         []string `json:"tags"`
	Featured     *bool    `json:"featured"`
	Published    *bool    `json:"published"`
}

// BlogInput carries the editable fields of a blog post
type BlogInput struct {
	Title      string `json:"title"`
	Excerpt    string `json:"excerpt"`
	Content    string `json:"content"`
	CoverImage string `json:"coverImage"`
	Published  *bool  `json:"published"`
}

// BookingRequest is a booking submitted from the public site
type BookingRequest struct {
	ClientName     string     `json:"clientName"`
	ClientEmail    string     `json:"clientEmail"`
	ClientPhone    string     `json:"clientPhone"`
	Service        string     `json:"service"`
	EventType      string     `json:"eventType"`
	EventDate      *time.Time `json:"eventDate"`
	Budget         *float64   `json:"budget"`
	Notes          string     `json:"notes"`
	ChallengeToken string     `json:"challengeToken"`
	RemoteIP       string     `json:"-"`
}

// InquiryRequest is a contact form submission
type InquiryRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Subject        string `json:"subject"`
	Message        string `json:"message"`
	ChallengeToken string `json:"challengeToken"`
	RemoteIP       string `json:"-"`
}
