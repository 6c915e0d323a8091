package decide

import (
	"testing"

	"loothound/internal/domain/game"
)

func TestMarketPotionsFirst(t *testing.T) {
	cat := fakeCatalog{
		101: {ID: 101, Tier: 2, Slot: game.SlotWeapon, Element: game.ElementBlade},
	}
	state := healthyState()
	state.HP = 50
	state.HPPct = 0.5
	state.Gold = 30
	state.Market = []int{101}

	action := Decide(state, DefaultPolicy(), cat, Options{})
	if action.Type != game.ActionBuyPotions {
		t.Fatalf("action = %s, want buy_potions before anything else", action.Type)
	}
	// 50 missing hp at 10 per potion, price 5, 30 gold affords all 5.
	if action.Potions != 5 {
		t.Fatalf("Potions = %d, want 5", action.Potions)
	}
}

func TestMarketFloorPriceRaisesHealTarget(t *testing.T) {
	state := healthyState()
	state.XP = 4
	state.Level = 2
	state.Stats.Charisma = 2 // potion price floors at 1
	state.HP = 80
	state.HPPct = 0.8
	state.Gold = 5
	state.Market = []int{101}

	action := Decide(state, DefaultPolicy(), fakeCatalog{}, Options{})
	if action.Type != game.ActionBuyPotions {
		t.Fatalf("action = %s, want buy_potions: floor price tops up to near-full", action.Type)
	}
	if action.Potions != 2 {
		t.Fatalf("Potions = %d, want 2", action.Potions)
	}
}

func TestMarketReplacesStarterWeapon(t *testing.T) {
	cat := fakeCatalog{
		1:   {ID: 1, Tier: 5, Slot: game.SlotWeapon, Element: game.ElementBlade},
		101: {ID: 101, Tier: 2, Slot: game.SlotWeapon, Element: game.ElementMagic},
	}
	state := healthyState()
	state.Gold = 40
	state.Equipment.Weapon = game.Item{ID: 1, XP: 50}
	state.Market = []int{101}

	action := Decide(state, DefaultPolicy(), cat, Options{})
	if action.Type != game.ActionBuyItems {
		t.Fatalf("action = %s, want buy_items", action.Type)
	}
	want := []game.Purchase{{ItemID: 101, Equip: true}}
	if len(action.Purchases) != 1 || action.Purchases[0] != want[0] {
		t.Fatalf("Purchases = %+v, want %+v", action.Purchases, want)
	}
}

func TestMarketKeepsGoodWeapon(t *testing.T) {
	cat := fakeCatalog{
		1:   {ID: 1, Tier: 2, Slot: game.SlotWeapon, Element: game.ElementBlade},
		101: {ID: 101, Tier: 1, Slot: game.SlotWeapon, Element: game.ElementMagic},
	}
	state := healthyState()
	state.Gold = 60
	state.Equipment.Weapon = game.Item{ID: 1, XP: 400}
	state.Market = []int{101}

	action := Decide(state, DefaultPolicy(), cat, Options{})
	if action.Type == game.ActionBuyItems {
		t.Fatalf("a levelled tier 2 weapon does not need replacing, got %+v", action)
	}
}

func TestMarketArmorCoverageCheapestFirst(t *testing.T) {
	cat := fakeCatalog{
		200: {ID: 200, Tier: 1, Slot: game.SlotHead, Element: game.ElementMetal},
		201: {ID: 201, Tier: 5, Slot: game.SlotChest, Element: game.ElementCloth},
	}
	state := healthyState()
	state.Gold = 25 // 10 spendable: tier 5 at 4 fits, tier 1 at 20 does not

	state.Market = []int{200, 201}

	action := Decide(state, DefaultPolicy(), cat, Options{})
	if action.Type != game.ActionBuyItems {
		t.Fatalf("action = %s, want buy_items", action.Type)
	}
	if action.Purchases[0].ItemID != 201 || !action.Purchases[0].Equip {
		t.Fatalf("Purchases = %+v, want cheap chest equipped", action.Purchases)
	}
}

func TestMarketGoldReserveBlocksShopping(t *testing.T) {
	cat := fakeCatalog{
		201: {ID: 201, Tier: 5, Slot: game.SlotChest, Element: game.ElementCloth},
	}
	state := healthyState()
	state.Gold = 15 // exactly the reserve, nothing spendable
	state.Market = []int{201}

	action := Decide(state, DefaultPolicy(), cat, Options{})
	if action.Type != game.ActionExplore {
		t.Fatalf("action = %s, want explore: the reserve is untouchable", action.Type)
	}
}

func TestMarketPrefersGoldRing(t *testing.T) {
	cat := fakeCatalog{
		game.GoldRingID: {ID: game.GoldRingID, Tier: 1, Slot: game.SlotRing},
		9:               {ID: 9, Tier: 5, Slot: game.SlotRing},
	}
	state := healthyState()
	state.Gold = 60
	for _, slot := range game.ArmorSlots {
		state.Equipment = state.Equipment.WithSlot(slot, game.Item{ID: 300 + int(slot[0]), XP: 1})
	}
	state.Market = []int{9, game.GoldRingID}

	action := Decide(state, DefaultPolicy(), cat, Options{})
	if action.Type != game.ActionBuyItems {
		t.Fatalf("action = %s, want buy_items", action.Type)
	}
	if action.Purchases[0].ItemID != game.GoldRingID {
		t.Fatalf("Purchases = %+v, want the gold ring", action.Purchases)
	}
}

func TestMarketNeckMatchesDominantArmor(t *testing.T) {
	cat := fakeCatalog{
		301: {ID: 301, Tier: 3, Slot: game.SlotChest, Element: game.ElementMetal},
		302: {ID: 302, Tier: 3, Slot: game.SlotHead, Element: game.ElementMetal},
		303: {ID: 303, Tier: 3, Slot: game.SlotWaist, Element: game.ElementMetal},
		304: {ID: 304, Tier: 3, Slot: game.SlotFoot, Element: game.ElementMetal},
		305: {ID: 305, Tier: 3, Slot: game.SlotHand, Element: game.ElementMetal},
		310: {ID: 310, Tier: 2, Slot: game.SlotNeck, Element: game.ElementCloth},
		311: {ID: 311, Tier: 2, Slot: game.SlotNeck, Element: game.ElementMetal},
	}
	state := healthyState()
	state.Gold = 60
	state.Equipment.Ring = game.Item{ID: 9, XP: 1}
	state.Equipment.Chest = game.Item{ID: 301, XP: 1}
	state.Equipment.Head = game.Item{ID: 302, XP: 1}
	state.Equipment.Waist = game.Item{ID: 303, XP: 1}
	state.Equipment.Foot = game.Item{ID: 304, XP: 1}
	state.Equipment.Hand = game.Item{ID: 305, XP: 1}
	state.Market = []int{310, 311}

	action := Decide(state, DefaultPolicy(), cat, Options{})
	if action.Type != game.ActionBuyItems {
		t.Fatalf("action = %s, want buy_items", action.Type)
	}
	if action.Purchases[0].ItemID != 311 {
		t.Fatalf("Purchases = %+v, want the metal-matching neck 311", action.Purchases)
	}
}

func TestMarketTierUpgradeForCoveredSlot(t *testing.T) {
	cat := fakeCatalog{
		201: {ID: 201, Tier: 5, Slot: game.SlotChest, Element: game.ElementCloth},
		400: {ID: 400, Tier: 1, Slot: game.SlotChest, Element: game.ElementMetal},
	}
	state := healthyState()
	state.Gold = 60
	state.Equipment.Ring = game.Item{ID: 9, XP: 1}
	state.Equipment.Neck = game.Item{ID: 10, XP: 1}
	state.Equipment.Chest = game.Item{ID: 201, XP: 400}
	state.Equipment.Head = game.Item{ID: 201, XP: 1}
	state.Equipment.Waist = game.Item{ID: 201, XP: 1}
	state.Equipment.Foot = game.Item{ID: 201, XP: 1}
	state.Equipment.Hand = game.Item{ID: 201, XP: 1}
	state.Market = []int{400}

	action := Decide(state, DefaultPolicy(), cat, Options{})
	if action.Type != game.ActionBuyItems {
		t.Fatalf("action = %s, want buy_items", action.Type)
	}
	// Bought into the bag, not equipped over a levelled piece.
	if action.Purchases[0].ItemID != 400 || action.Purchases[0].Equip {
		t.Fatalf("Purchases = %+v, want unequipped tier upgrade", action.Purchases)
	}
}
