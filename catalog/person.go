package catalog

// PersonIDString represents a person identifier.
type PersonIDString = string

// Person is a library patron.
type Person struct {
	name     string
	age      int
	personID PersonIDString
}

// BuildPerson creates a new Person.
func BuildPerson(name string, age int, personID PersonIDString) Person {
	return Person{
		name:     name,
		age:      age,
		personID: personID,
	}
}

func (p Person) Name() string {
	return p.name
}

func (p Person) Age() int {
	return p.age
}

func (p Person) PersonID() PersonIDString {
	return p.personID
}
