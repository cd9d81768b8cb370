package policy

import (
	"fmt"

	"github.com/Freeeeeet/bookticket/internal/model"
)

// SeatsPerRow количество мест в ряду (A-F)
const SeatsPerRow = 6

var seatLetters = [SeatsPerRow]string{"A", "B", "C", "D", "E", "F"}

// GenerateSeats строит каталог мест самолёта. Сначала бизнес-класс, затем эконом;
// каждый класс нумерует ряды с 1, последний ряд может быть неполным.
// Порядок результата определяет, какие места получит расписание первыми.
func GenerateSeats(airplane *model.Airplane) []model.Seat {
	seats := make([]model.Seat, 0, airplane.BusinessSeatCapacity+airplane.EconomySeatCapacity)
	seats = appendClass(seats, airplane.ID, model.SeatClassBusiness, airplane.BusinessSeatCapacity)
	seats = appendClass(seats, airplane.ID, model.SeatClassEconomy, airplane.EconomySeatCapacity)
	return seats
}

func appendClass(seats []model.Seat, airplaneID int64, class model.SeatClass, capacity int) []model.Seat {
	for i := 0; i < capacity; i++ {
		row := i/SeatsPerRow + 1
		seats = append(seats, model.Seat{
			AirplaneID: airplaneID,
			Code:       fmt.Sprintf("%s%d%s", class.Prefix(), row, seatLetters[i%SeatsPerRow]),
			Class:      class,
		})
	}
	return seats
}
