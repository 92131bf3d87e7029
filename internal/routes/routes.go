package routes

const (
	Health = "/health"

	Addresses   = "/api/v1/addresses"
	AddressByID = "/api/v1/addresses/{id}"
	AddressCopy = "/api/v1/addresses/{id}/copy"

	SportConfigs    = "/api/v1/sport-configs"
	SportConfigByID = "/api/v1/sport-configs/{id}"
	SportConfigCopy = "/api/v1/sport-configs/{id}/copy"

	Tournaments      = "/api/v1/tournaments"
	TournamentByID   = "/api/v1/tournaments/{id}"
	TournamentCopy   = "/api/v1/tournaments/{id}/copy"
	TournamentStages = "/api/v1/tournaments/{tid}/stages"

	StageByID = "/api/v1/stages/{id}"

	Subscribe = "/api/cr/subscribe/{kind}/{id}"
)
