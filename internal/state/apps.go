package state

// Application scopes. Each names an independent store; their storage keys
// never collide because Key prefixes them.
const (
	AppStorefront = "storefront"
	AppLearning   = "learning"
	AppRelief     = "relief"
	AppNextGen    = "nextgen"
)

// Apps lists every known application scope.
var Apps = []string{AppStorefront, AppLearning, AppRelief, AppNextGen}
