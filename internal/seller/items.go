package seller

// Underground treasures sold for diamonds. Order is the sell order.
var treasureList = []string{
	"Rare_bone",
	"Star_piece",
	"Revive",
	"Max_revive",
	"Iron_ball",
	"Heart_scale",
	"Light_clay",
	"Odd_keystone",
	"Hard_stone",
	"Oval_stone",
	"Everstone",
	"Smooth_rock",
	"Heat_rock",
	"Icy_rock",
	"Damp_rock",
}

var plateList = []string{
	"Draco_plate",
	"Dread_plate",
	"Earth_plate",
	"Fist_plate",
	"Flame_plate",
	"Icicle_plate",
	"Insect_plate",
	"Iron_plate",
	"Meadow_plate",
	"Mind_plate",
	"Sky_plate",
	"Splash_plate",
	"Spooky_plate",
	"Stone_plate",
	"Toxic_plate",
	"Zap_plate",
	"Pixie_plate",
	"Blank_plate",
}

func Treasures() []string {
	return append([]string(nil), treasureList...)
}

func Plates() []string {
	return append([]string(nil), plateList...)
}
