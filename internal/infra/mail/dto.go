package mail

type HotLeadEmailData struct {
	Name        string
	Company     string
	Email       string
	Phone       string
	Income      string
	FollowUpDue string
}

type EmailSender struct {
	Host       string
	Port       int
	User       string
	Password   string
	SalesInbox string
}
