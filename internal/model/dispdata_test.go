package model

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDCJoinerSeesHUcastForHUcasealCreator(t *testing.T) {
	creator := DispData{Name: "Creator", Class: ClassHUcaseal, Hair: 8}
	seen := creator.ForRecipient(true, false)
	require.Equal(t, ClassHUcast, seen.Class)
}

func TestV2GameSkipsRemap(t *testing.T) {
	creator := DispData{Name: "Creator", Class: ClassHUcaseal}
	seen := creator.ForRecipient(true, true)
	require.Equal(t, ClassHUcaseal, seen.Class, "v2 game joiners must see the forbidden class so they can be kicked")
}

func TestNonDCPCRecipientUnaffected(t *testing.T) {
	creator := DispData{Name: "Creator", Class: ClassHUcaseal, Costume: 20}
	seen := creator.ForRecipient(false, false)
	require.Equal(t, ClassHUcaseal, seen.Class)
	require.Equal(t, uint16(20), seen.Costume)
}

func TestHairClampForEligibleClasses(t *testing.T) {
	d := DispData{Class: ClassHUmar, Hair: 7}
	seen := d.ForRecipient(true, true)
	require.Equal(t, uint16(0), seen.Hair)
}

func TestCostumeModuloNine(t *testing.T) {
	d := DispData{Class: ClassRAcast, Costume: 20, Skin: 11}
	seen := d.ForRecipient(true, true)
	require.Equal(t, uint16(20%9), seen.Costume)
	require.Equal(t, uint16(11%9), seen.Skin)
}
