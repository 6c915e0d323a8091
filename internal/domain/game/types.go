package game

type Slot string

const (
	SlotWeapon Slot = "weapon"
	SlotChest  Slot = "chest"
	SlotHead   Slot = "head"
	SlotWaist  Slot = "waist"
	SlotFoot   Slot = "foot"
	SlotHand   Slot = "hand"
	SlotNeck   Slot = "neck"
	SlotRing   Slot = "ring"
)

// ArmorSlots are the five independently rolled defense slots.
var ArmorSlots = []Slot{SlotChest, SlotHead, SlotWaist, SlotFoot, SlotHand}

var AllSlots = []Slot{SlotWeapon, SlotChest, SlotHead, SlotWaist, SlotFoot, SlotHand, SlotNeck, SlotRing}

type Element string

const (
	ElementBlade    Element = "blade"
	ElementBludgeon Element = "bludgeon"
	ElementMagic    Element = "magic"
	ElementCloth    Element = "cloth"
	ElementHide     Element = "hide"
	ElementMetal    Element = "metal"
	ElementNone     Element = ""
)

type Stats struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Vitality     int `json:"vitality"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
	Luck         int `json:"luck"`
}

func (s Stats) Total() int {
	return s.Strength + s.Dexterity + s.Vitality + s.Intelligence + s.Wisdom + s.Charisma + s.Luck
}

// Item is an owned item instance. The zero value means an empty slot.
type Item struct {
	ID int `json:"id"`
	XP int `json:"xp"`
}

func (i Item) IsEmpty() bool { return i.ID == 0 }

// ItemMeta is the immutable catalog record for an item id.
// Tier runs 1 (best) to 5 (worst).
type ItemMeta struct {
	ID      int     `json:"id"`
	Name    string  `json:"name"`
	Tier    int     `json:"tier"`
	Slot    Slot    `json:"slot"`
	Element Element `json:"element"`
}

type Equipment struct {
	Weapon Item `json:"weapon"`
	Chest  Item `json:"chest"`
	Head   Item `json:"head"`
	Waist  Item `json:"waist"`
	Foot   Item `json:"foot"`
	Hand   Item `json:"hand"`
	Neck   Item `json:"neck"`
	Ring   Item `json:"ring"`
}

func (e Equipment) ForSlot(slot Slot) Item {
	switch slot {
	case SlotWeapon:
		return e.Weapon
	case SlotChest:
		return e.Chest
	case SlotHead:
		return e.Head
	case SlotWaist:
		return e.Waist
	case SlotFoot:
		return e.Foot
	case SlotHand:
		return e.Hand
	case SlotNeck:
		return e.Neck
	case SlotRing:
		return e.Ring
	}
	return Item{}
}

func (e Equipment) WithSlot(slot Slot, item Item) Equipment {
	next := e
	switch slot {
	case SlotWeapon:
		next.Weapon = item
	case SlotChest:
		next.Chest = item
	case SlotHead:
		next.Head = item
	case SlotWaist:
		next.Waist = item
	case SlotFoot:
		next.Foot = item
	case SlotHand:
		next.Hand = item
	case SlotNeck:
		next.Neck = item
	case SlotRing:
		next.Ring = item
	}
	return next
}

type Beast struct {
	ID            int  `json:"id"`
	Health        int  `json:"health"`
	Level         int  `json:"level"`
	IsCollectable bool `json:"is_collectable"`
}

// DerivedState is recomputed from a raw snapshot every iteration and never
// mutated in place.
type DerivedState struct {
	AdventurerID uint64 `json:"adventurer_id"`

	HP          int     `json:"hp"`
	MaxHP       int     `json:"max_hp"`
	HPPct       float64 `json:"hp_pct"`
	XP          int     `json:"xp"`
	Level       int     `json:"level"`
	Gold        int     `json:"gold"`
	ActionCount uint64  `json:"action_count"`

	Stats        Stats `json:"stats"`
	StatUpgrades int   `json:"stat_upgrades"`

	Beast               Beast   `json:"beast"`
	InCombat            bool    `json:"in_combat"`
	FleeChance          float64 `json:"flee_chance"`
	AvoidObstacleChance float64 `json:"avoid_obstacle_chance"`
	AvoidAmbushChance   float64 `json:"avoid_ambush_chance"`

	BagItems  []Item    `json:"bag_items"`
	Equipment Equipment `json:"equipment"`
	Market    []int     `json:"market"`
}

// NotStarted reports an identity that has never taken an action and may be
// (re)started. Terminated runs cannot be resumed under the same id.
func (s DerivedState) NotStarted() bool { return s.HP == 0 && s.XP == 0 }

func (s DerivedState) Terminated() bool { return s.HP == 0 && s.XP > 0 }

func (s DerivedState) MarketOpen() bool { return len(s.Market) > 0 }

type ActionType string

const (
	ActionStartGame   ActionType = "start_game"
	ActionExplore     ActionType = "explore"
	ActionAttack      ActionType = "attack"
	ActionFlee        ActionType = "flee"
	ActionBuyPotions  ActionType = "buy_potions"
	ActionBuyItems    ActionType = "buy_items"
	ActionEquip       ActionType = "equip"
	ActionSelectStats ActionType = "select_stats"
	ActionWait        ActionType = "wait"
)

type Purchase struct {
	ItemID int  `json:"item_id"`
	Equip  bool `json:"equip"`
}

type StatAllocation struct {
	Strength     int `json:"strength"`
	Dexterity    int `json:"dexterity"`
	Vitality     int `json:"vitality"`
	Intelligence int `json:"intelligence"`
	Wisdom       int `json:"wisdom"`
	Charisma     int `json:"charisma"`
	Luck         int `json:"luck"`
}

func (a StatAllocation) Total() int {
	return a.Strength + a.Dexterity + a.Vitality + a.Intelligence + a.Wisdom + a.Charisma + a.Luck
}

// Action is the single decision emitted per iteration. Reason is required on
// every variant and is used for observability only.
type Action struct {
	Type   ActionType `json:"type"`
	Reason string     `json:"reason"`

	TillBeast bool           `json:"till_beast,omitempty"`
	ToDeath   bool           `json:"to_death,omitempty"`
	Potions   int            `json:"potions,omitempty"`
	Purchases []Purchase     `json:"purchases,omitempty"`
	EquipIDs  []int          `json:"equip_ids,omitempty"`
	Stats     StatAllocation `json:"stats,omitempty"`
}
