// Package parsers imports all record parsers to trigger their init()
// registration. Import this package with a blank import to register all
// parsers with the default registry.
package parsers

import (
	_ "cifp_parser/internal/parsers/airport"
	_ "cifp_parser/internal/parsers/airway"
	_ "cifp_parser/internal/parsers/ils"
	_ "cifp_parser/internal/parsers/navaid"
	_ "cifp_parser/internal/parsers/ndb"
	_ "cifp_parser/internal/parsers/proc"
	_ "cifp_parser/internal/parsers/runway"
	_ "cifp_parser/internal/parsers/waypoint"
)
